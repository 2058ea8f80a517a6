package analyzer

import (
	"regexp"
	"strings"

	"github.com/nestlang/nest/pkgs/ast"
	"github.com/nestlang/nest/pkgs/diag"
)

// reservedAliases are short flags claimed by the generated CLI surface and
// therefore unavailable as parameter aliases.
var reservedAliases = map[string]bool{
	"h": true, // --help
	"v": true, // --version
	"q": true, // --quiet
}

var paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseParameters parses the text between a command's parentheses and
// attaches the resulting descriptors to cmd. baseCol is the column of the
// first character inside the parentheses, used for exact diagnostic spans.
func (a *analysis) parseParameters(cmd *ast.Command, list string, line, baseCol int) {
	if strings.TrimSpace(list) == "" {
		return
	}

	seen := make(map[string]int)
	parts, offsets := splitTopLevel(list, ',')

	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			r := diag.RangeOf(line, baseCol+offsets[i], baseCol+offsets[i]+len(part))
			a.diags = append(a.diags, diag.Errorf(r, "empty parameter"))
			continue
		}
		off := baseCol + offsets[i] + strings.Index(part, trimmed)
		if p, ok := a.parseParameter(trimmed, line, off); ok {
			if _, dup := seen[p.Name]; dup {
				r := diag.RangeOf(line, off, off+len(trimmed))
				a.diags = append(a.diags, diag.Errorf(r,
					"duplicate parameter %q (already declared in this command)", p.Name))
				continue
			}
			seen[p.Name] = i
			cmd.Parameters = append(cmd.Parameters, p)
		}
	}
}

// parseParameter parses one comma-separated part. Grammar:
//
//	["*"|"!"] name ["|" alias] [":" type] ["=" default]
//
// col is the column of the part's first character in the source line.
func (a *analysis) parseParameter(part string, line, col int) (ast.Parameter, bool) {
	p := ast.Parameter{Raw: part, SourceLine: line, Type: ast.TypeUnchecked}

	rest := part
	switch {
	case strings.HasPrefix(rest, "*"):
		p.Variadic = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "!"):
		p.Named = true
		rest = rest[1:]
	}
	restCol := col + len(part) - len(rest)

	// Split off the default first so aliases and types inside default
	// values cannot confuse the scan.
	head := rest
	if eq := indexTopLevel(rest, '='); eq >= 0 {
		head = rest[:eq]
		p.Default = strings.TrimSpace(rest[eq+1:])
	}

	typeIdx := strings.Index(head, ":")
	aliasIdx := strings.Index(head, "|")
	if typeIdx >= 0 && aliasIdx > typeIdx {
		aliasIdx = -1 // a | after the colon belongs to the type or default
	}

	nameEnd := len(head)
	if aliasIdx >= 0 {
		nameEnd = aliasIdx
	} else if typeIdx >= 0 {
		nameEnd = typeIdx
	}
	p.Name = strings.TrimSpace(head[:nameEnd])

	if !paramNameRe.MatchString(p.Name) {
		r := diag.RangeOf(line, col, col+len(part))
		a.diags = append(a.diags, diag.Errorf(r, "malformed parameter %q", part))
		return p, false
	}

	if aliasIdx >= 0 {
		aliasEnd := len(head)
		if typeIdx >= 0 {
			aliasEnd = typeIdx
		}
		alias := strings.TrimSpace(head[aliasIdx+1 : aliasEnd])
		p.Alias = alias
		aliasCol := restCol + aliasIdx + 1
		switch {
		case alias == "":
			r := diag.RangeOf(line, restCol+aliasIdx, restCol+aliasIdx+1)
			a.diags = append(a.diags, diag.Warningf(r, "parameter %q declares an empty alias", p.Name))
		case len(alias) > 1:
			r := diag.RangeOf(line, aliasCol, aliasCol+len(alias))
			a.diags = append(a.diags, diag.Warningf(r, "alias %q must be a single character", alias))
		case reservedAliases[alias]:
			r := diag.RangeOf(line, aliasCol, aliasCol+len(alias))
			a.diags = append(a.diags, diag.Warningf(r, "alias %q collides with a reserved flag", alias))
		}
	}

	if typeIdx >= 0 {
		typeRaw := head[typeIdx+1:]
		typeName := strings.TrimSpace(typeRaw)
		typeCol := restCol + typeIdx + 1 + strings.Index(typeRaw, typeName)
		if typeName == "" {
			r := diag.RangeOf(line, restCol+typeIdx, restCol+typeIdx+1)
			a.diags = append(a.diags, diag.Errorf(r, "parameter %q has an empty type", p.Name))
			return p, false
		}
		t, ok := ast.ParamTypeFromString(typeName)
		if !ok {
			r := diag.RangeOf(line, typeCol, typeCol+len(typeName))
			a.diags = append(a.diags, diag.Errorf(r,
				"unknown parameter type %q (expected str, bool, num, or arr)", typeName))
			return p, false
		}
		p.Type = t
	} else if !p.Variadic {
		// Only wildcards may omit the type annotation.
		r := diag.RangeOf(line, col, col+len(part))
		a.diags = append(a.diags, diag.Errorf(r,
			"malformed parameter %q: missing type annotation", part))
		return p, false
	}

	return p, true
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// parentheses or quotes. It returns the raw parts together with the offset
// of each part within s.
func splitTopLevel(s string, sep byte) ([]string, []int) {
	var parts []string
	var offsets []int

	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == sep && depth == 0:
			parts = append(parts, s[start:i])
			offsets = append(offsets, start)
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	offsets = append(offsets, start)
	return parts, offsets
}

// indexTopLevel returns the index of the first sep outside quotes, or -1.
func indexTopLevel(s string, sep byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == sep:
			return i
		}
	}
	return -1
}
