package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nestlang/nest/pkgs/ast"
	"github.com/nestlang/nest/pkgs/diag"
)

var (
	envKeyRe     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	validateExpr = regexp.MustCompile(`^\S+\s+(matches|in)\s+\S`)
)

// multilineMarker introduces a block whose value spans subsequent
// deeper-indented lines.
const multilineMarker = "|"

// directive processes one directive line: attaches it to its owning
// command, runs the per-kind shape checks, and consumes a trailing
// multiline block if one follows. Returns the index of the next
// unprocessed line.
func (a *analysis) directive(i int, c classified) int {
	d := ast.Directive{
		Name:       c.dirName,
		Kind:       c.dirKind,
		Modifier:   c.dirMod,
		Bracketed:  c.bracketed,
		RawValue:   c.value,
		SourceLine: i,
	}

	if owner := a.stack.owner(c.indent); owner != nil {
		owner.Directives = append(owner.Directives, d)
	} else {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Warningf(r,
			"directive %q has no enclosing command", c.dirName))
	}

	a.checkDirectiveShape(i, c)

	if ast.IsScriptKind(c.dirKind) {
		return a.checkScriptBody(i, c)
	}
	return i + 1
}

// checkDirectiveShape runs the per-kind value checks that need no
// lookahead.
func (a *analysis) checkDirectiveShape(i int, c classified) {
	if c.bracketed && !modifierKinds[c.dirKind] {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r,
			"directive %q does not support bracketed modifiers", c.dirKind))
	}

	switch c.dirKind {
	case "env":
		a.checkEnvValue(i, c)
	case "logs":
		a.checkLogsValue(i, c)
	case "validate":
		a.checkValidateValue(i, c)
	}

	if strings.Contains(c.value, "$(") && substitutionDepth(c.value) != 0 {
		r := diag.RangeOf(i, c.valueCol, c.valueCol+len(c.value))
		a.diags = append(a.diags, diag.Warningf(r,
			"unbalanced command substitution in %s directive", c.dirKind))
	}
}

// checkEnvValue accepts KEY=VALUE assignments (the value may carry
// ${VAR} / ${VAR:-default} substitutions) or a bare .env-style file path.
// Well-formed keys enter the template symbol table.
func (a *analysis) checkEnvValue(i int, c classified) {
	v := c.value
	r := diag.RangeOf(i, c.valueCol, c.valueCol+len(v))
	if v == "" {
		r = diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r,
			"env directive requires KEY=VALUE or a .env file path"))
		return
	}
	if eq := strings.IndexByte(v, '='); eq >= 0 {
		key := strings.TrimSpace(v[:eq])
		if !envKeyRe.MatchString(key) {
			a.diags = append(a.diags, diag.Errorf(r,
				"invalid environment key %q", key))
			return
		}
		a.envKeys = append(a.envKeys, key)
		return
	}
	if !strings.Contains(filepath.Base(v), ".env") {
		a.diags = append(a.diags, diag.Errorf(r,
			"env directive requires KEY=VALUE or a .env file path"))
	}
}

// checkLogsValue requires one of the two supported sinks plus a
// destination path.
func (a *analysis) checkLogsValue(i int, c classified) {
	if c.bracketed || (c.dirMod != "json" && c.dirMod != "plain") {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r,
			"logs directive must select a sink: logs.json or logs.plain"))
		return
	}
	if c.value == "" {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r,
			"logs.%s requires a destination path", c.dirMod))
	}
}

// checkValidateValue accepts `target matches <pattern>`, `target in
// <set>`, or the per-parameter form validate.PARAM: <pattern>.
func (a *analysis) checkValidateValue(i int, c classified) {
	if c.dirMod != "" && !c.bracketed {
		if c.value == "" {
			r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
			a.diags = append(a.diags, diag.Errorf(r,
				"validate.%s requires a pattern", c.dirMod))
		}
		return
	}
	if !validateExpr.MatchString(c.value) {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r,
			`validate directive must be "<target> matches <pattern>" or "<target> in <set>"`))
	}
}

// checkScriptBody handles the multiline-block rules for the script family.
// When the value is the block marker it scans the block and consumes its
// lines; otherwise it looks one line ahead for a likely forgotten marker.
func (a *analysis) checkScriptBody(i int, c classified) int {
	if c.value == multilineMarker {
		j := i + 1
		content := 0
		for j < len(a.lines) {
			// Block lines are raw text, so a deeper # line is content, not
			// a comment. Only whitespace lines get blank treatment.
			if strings.TrimSpace(a.lines[j]) == "" {
				if content == 0 {
					break // a leading blank ends the block before any content
				}
				j++
				continue
			}
			if indentLevelOf(a.lines[j]) <= c.indent {
				break
			}
			content++
			j++
		}
		if content == 0 {
			r := diag.RangeOf(i, c.keywordCol, c.valueCol+len(c.value))
			a.diags = append(a.diags, diag.Errorf(r,
				"multiline %s block is empty", c.dirKind))
		}
		return j
	}

	// Single-line value: a deeper line that is not itself a recognized
	// directive means the author likely intended a block and forgot the
	// marker.
	if next, ok := a.nextContentLine(i + 1); ok {
		nc := classify(a.lines[next])
		if nc.indent > c.indent && nc.kind != lineDirective {
			r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
			a.diags = append(a.diags, diag.Errorf(r,
				"%s block is missing the multiline marker %q", c.dirKind, multilineMarker))
			return i + 1
		}
	}

	if c.value == "" {
		r := diag.RangeOf(i, c.keywordCol, c.keywordEnd)
		a.diags = append(a.diags, diag.Errorf(r, "%s directive is empty", c.dirKind))
	}
	return i + 1
}

// nextContentLine returns the index of the first non-blank, non-comment
// line at or after start.
func (a *analysis) nextContentLine(start int) (int, bool) {
	for j := start; j < len(a.lines); j++ {
		if !isBlankLine(a.lines[j]) {
			return j, true
		}
	}
	return 0, false
}

// substitutionDepth tracks $( ... ) nesting across a directive value. A
// non-zero result means an opener never closed.
func substitutionDepth(v string) int {
	depth := 0
	for k := 0; k < len(v); k++ {
		switch {
		case v[k] == '$' && k+1 < len(v) && v[k+1] == '(':
			depth++
			k++
		case v[k] == '(' && depth > 0:
			depth++
		case v[k] == ')' && depth > 0:
			depth--
		}
	}
	return depth
}
