// Package ast defines the command tree produced by a structural pass over a
// Nest document. A fresh tree is built per analysis run; nodes are not
// mutated after the run completes.
package ast

import (
	"fmt"
	"strings"
)

// ParamType is the declared type of a command parameter.
type ParamType int

const (
	TypeUnchecked ParamType = iota // wildcards carry no checked type
	TypeStr
	TypeBool
	TypeNum
	TypeArr
)

func (t ParamType) String() string {
	switch t {
	case TypeStr:
		return "str"
	case TypeBool:
		return "bool"
	case TypeNum:
		return "num"
	case TypeArr:
		return "arr"
	default:
		return "unchecked"
	}
}

// ParamTypeFromString maps a source-level type name to its ParamType.
func ParamTypeFromString(s string) (ParamType, bool) {
	switch s {
	case "str":
		return TypeStr, true
	case "bool":
		return TypeBool, true
	case "num":
		return TypeNum, true
	case "arr":
		return TypeArr, true
	default:
		return TypeUnchecked, false
	}
}

// Parameter describes one entry of a command's parameter list.
type Parameter struct {
	Name       string    // identifier with the * / ! prefix stripped
	Raw        string    // original part text as written
	Type       ParamType // TypeUnchecked for wildcards
	Alias      string    // optional single-character short flag
	Default    string    // optional default value text
	Variadic   bool      // declared with a leading *
	Named      bool      // declared with a leading ! (bound to --name/-alias)
	SourceLine int       // zero-based line of the owning command definition
}

func (p Parameter) String() string {
	var b strings.Builder
	switch {
	case p.Variadic:
		b.WriteByte('*')
	case p.Named:
		b.WriteByte('!')
	}
	b.WriteString(p.Name)
	if p.Alias != "" {
		b.WriteByte('|')
		b.WriteString(p.Alias)
	}
	if p.Type != TypeUnchecked {
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	if p.Default != "" {
		b.WriteString(" = ")
		b.WriteString(p.Default)
	}
	return b.String()
}

// SymbolName is the name under which the parameter enters the template
// symbol table. Wildcards keep their * prefix.
func (p Parameter) SymbolName() string {
	if p.Variadic {
		return "*" + p.Name
	}
	return p.Name
}

// Directive is one keyed configuration line inside a command body. Multiple
// directives of the same kind may appear; document order is preserved and
// nothing is deduplicated here (ordering semantics belong to execution).
type Directive struct {
	Name       string // full spelling: "script[hide]", "logs.json", "depends"
	Kind       string // base keyword: "script", "logs", "depends"
	Modifier   string // dotted or bracketed modifier, "" if absent
	Bracketed  bool   // modifier was written in brackets
	RawValue   string // unparsed text after the separator
	SourceLine int    // zero-based
}

func (d Directive) String() string {
	if d.RawValue == "" {
		return d.Name + ":"
	}
	return d.Name + ": " + d.RawValue
}

// Command is a node of the command tree. A Command exclusively owns its
// parameters, directives, and children; children are attached by the
// indentation pass so the structure is acyclic by construction.
type Command struct {
	Name       string
	SourceLine int // zero-based
	Parameters []Parameter
	Directives []Directive
	Children   []*Command
}

func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if len(c.Parameters) > 0 {
		parts := make([]string, len(c.Parameters))
		for i, p := range c.Parameters {
			parts[i] = p.String()
		}
		fmt.Fprintf(&b, "(%s)", strings.Join(parts, ", "))
	}
	b.WriteByte(':')
	return b.String()
}

// scriptKinds is the directive family whose presence makes a leaf command
// executable.
var scriptKinds = map[string]bool{
	"script":   true,
	"before":   true,
	"after":    true,
	"fallback": true,
	"finally":  true,
}

// IsScriptKind reports whether kind belongs to the script directive family.
func IsScriptKind(kind string) bool { return scriptKinds[kind] }

// Directive returns the first directive of the given kind, or nil.
func (c *Command) Directive(kind string) *Directive {
	for i := range c.Directives {
		if c.Directives[i].Kind == kind {
			return &c.Directives[i]
		}
	}
	return nil
}

// HasScript reports whether the command carries any script-family directive.
func (c *Command) HasScript() bool {
	for _, d := range c.Directives {
		if scriptKinds[d.Kind] {
			return true
		}
	}
	return false
}

// Walk visits the command and all descendants in document order.
func (c *Command) Walk(fn func(*Command)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}

// Count returns the number of commands in the forest, all depths included.
func Count(roots []*Command) int {
	n := 0
	for _, root := range roots {
		root.Walk(func(*Command) { n++ })
	}
	return n
}

// FindByLine returns the command defined on the given zero-based source
// line, or nil. Host layers use this for line-keyed lookups (hover,
// completions) without re-walking the tree themselves.
func FindByLine(roots []*Command, line int) *Command {
	var found *Command
	for _, root := range roots {
		root.Walk(func(c *Command) {
			if c.SourceLine == line {
				found = c
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}
