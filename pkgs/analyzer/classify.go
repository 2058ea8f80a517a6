package analyzer

import (
	"regexp"
	"strings"
)

// indentUnit is the fixed number of columns per indentation level.
const indentUnit = 4

// lineKind is the structural role of one source line.
type lineKind int

const (
	lineBlank lineKind = iota // blank or comment, skipped
	lineCommand
	lineDirective
	lineDeclaration
	linePlain
	lineUnknownDirective
	lineMalformedCommand
)

// directiveKinds is the fixed directive vocabulary.
var directiveKinds = map[string]bool{
	"desc":            true,
	"cwd":             true,
	"env":             true,
	"script":          true,
	"before":          true,
	"after":           true,
	"fallback":        true,
	"finally":         true,
	"depends":         true,
	"validate":        true,
	"logs":            true,
	"privileged":      true,
	"require_confirm": true,
	"if":              true,
	"elif":            true,
	"else":            true,
	"watch":           true,
}

// DirectiveKinds returns the directive vocabulary in stable order. Host
// layers use it for suggestion ranking; the analyzer itself never suggests.
func DirectiveKinds() []string {
	return []string{
		"desc", "cwd", "env", "script", "before", "after", "fallback",
		"finally", "depends", "validate", "logs", "privileged",
		"require_confirm", "if", "elif", "else", "watch",
	}
}

// modifierKinds are the directive kinds that accept a bracketed modifier
// such as script[hide] or depends[parallel].
var modifierKinds = map[string]bool{
	"script":   true,
	"before":   true,
	"after":    true,
	"fallback": true,
	"finally":  true,
	"depends":  true,
}

var declKeywords = map[string]bool{
	"var":    true,
	"const":  true,
	"fn":     true,
	"import": true,
}

var (
	// name(params): or name: with nothing else on the line
	commandRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*)(\((.*)\))?:\s*$`)

	// [@]keyword[.modifier][[modifier]]: value
	directiveRe = regexp.MustCompile(`^(@?)([A-Za-z_][A-Za-z0-9_]*)(\.([A-Za-z_][A-Za-z0-9_]*))?(\[([^\]]*)\])?:(.*)$`)

	// identifier immediately followed by ( but failing the command shape,
	// e.g. an unclosed parameter list
	malformedCommandRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*)\(`)
)

// classified is the result of classifying one raw line.
type classified struct {
	kind   lineKind
	indent int // indentation level (leading spaces / indentUnit)
	spaces int // raw count of leading space characters

	// command fields
	name      string
	paramText string
	hasParams bool

	// directive fields
	dirName    string // full spelling, e.g. "script[hide]"
	dirKind    string
	dirMod     string
	bracketed  bool
	value      string
	keywordCol int // column of the keyword token
	keywordEnd int
	valueCol   int // column where the raw value begins

	// declaration fields
	declKeyword string
	declRest    string
}

// classify decides the structural role of a single raw line. It performs no
// validation beyond recognizing the shape; directive and parameter checks
// run in their own passes.
func classify(raw string) classified {
	line := strings.TrimRight(raw, "\r\n")

	spaces := 0
	for spaces < len(line) && line[spaces] == ' ' {
		spaces++
	}
	content := line[spaces:]
	c := classified{indent: spaces / indentUnit, spaces: spaces}

	if strings.TrimSpace(content) == "" || strings.HasPrefix(content, "#") {
		c.kind = lineBlank
		return c
	}

	// Global declarations win over everything; they may appear at any
	// nesting depth and are collected document-wide.
	if kw, rest, ok := splitDeclaration(content); ok {
		c.kind = lineDeclaration
		c.declKeyword = kw
		c.declRest = rest
		return c
	}

	// Directive vocabulary wins over the command pattern, so `script:` is a
	// directive with an empty value rather than a command named "script".
	if m := directiveRe.FindStringSubmatchIndex(content); m != nil {
		marker := m[3] > m[2]
		keyword := content[m[4]:m[5]]
		kind := keyword
		c.keywordCol = spaces + m[4]
		c.keywordEnd = spaces + m[5]

		if directiveKinds[kind] {
			c.kind = lineDirective
			c.dirKind = kind
			c.dirName = keyword
			if m[8] >= 0 { // dotted modifier
				c.dirMod = content[m[8]:m[9]]
				c.dirName = keyword + "." + c.dirMod
				c.keywordEnd = spaces + m[9]
			}
			if m[12] >= 0 { // bracketed modifier
				c.dirMod = content[m[12]:m[13]]
				c.dirName = content[m[4]:m[11]]
				c.bracketed = true
				c.keywordEnd = spaces + m[11]
			}
			rest := content[m[14]:m[15]]
			trimmed := strings.TrimSpace(rest)
			c.value = trimmed
			c.valueCol = spaces + m[14] + strings.Index(rest, trimmed)
			if trimmed == "" {
				c.valueCol = spaces + m[14]
			}
			return c
		}

		// Unknown keyword. A bare `name:` line still reads as a command
		// definition; anything with a marker, modifier, or trailing value
		// is directive-shaped and gets reported.
		if marker || m[8] >= 0 || m[12] >= 0 || strings.TrimSpace(content[m[14]:m[15]]) != "" {
			c.kind = lineUnknownDirective
			c.dirName = keyword
			return c
		}
	}

	if m := commandRe.FindStringSubmatch(content); m != nil {
		c.kind = lineCommand
		c.name = m[1]
		if m[2] != "" {
			c.hasParams = true
			c.paramText = m[3]
		}
		return c
	}

	// A near-miss signature, like an unclosed parameter list, reads as an
	// attempted command definition rather than free text.
	if m := malformedCommandRe.FindStringSubmatch(content); m != nil {
		c.kind = lineMalformedCommand
		c.name = m[1]
		return c
	}

	c.kind = linePlain
	return c
}

// splitDeclaration reports whether the line starts a var/const/fn/import
// declaration and returns the keyword and the remainder.
func splitDeclaration(content string) (keyword, rest string, ok bool) {
	idx := strings.IndexAny(content, " \t")
	if idx < 0 {
		return "", "", false
	}
	kw := content[:idx]
	if !declKeywords[kw] {
		return "", "", false
	}
	return kw, strings.TrimSpace(content[idx:]), true
}

// isBlankLine reports whether the raw line is empty or a comment.
func isBlankLine(raw string) bool {
	t := strings.TrimSpace(raw)
	return t == "" || strings.HasPrefix(t, "#")
}

// indentLevelOf computes the indentation level of a raw line.
func indentLevelOf(raw string) int {
	spaces := 0
	for spaces < len(raw) && raw[spaces] == ' ' {
		spaces++
	}
	return spaces / indentUnit
}
