package analyzer

import (
	"regexp"
	"strings"

	"github.com/nestlang/nest/pkgs/ast"
	"github.com/nestlang/nest/pkgs/diag"
)

// builtinNames are always-defined template symbols.
var builtinNames = []string{"now", "user", "env", "cwd"}

var templateRe = regexp.MustCompile(`\{\{\s*(\*?[A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// semanticPass runs after the full tree exists: tree-shape invariants,
// undefined template references, and import resolution.
func (a *analysis) semanticPass() {
	a.checkTreeInvariants()
	a.checkTemplateRefs()
	a.checkImports()
}

// checkTreeInvariants walks the finished tree. A leaf command without a
// script-family directive cannot run; a group that also carries a script is
// legal but usually a mistake.
func (a *analysis) checkTreeInvariants() {
	for _, root := range a.roots {
		root.Walk(func(cmd *ast.Command) {
			switch {
			case len(cmd.Children) == 0 && !cmd.HasScript():
				a.diags = append(a.diags, diag.Warningf(a.nameRange(cmd),
					"command %q has no script directive", cmd.Name))
			case len(cmd.Children) > 0 && cmd.Directive("script") != nil:
				a.diags = append(a.diags, diag.Infof(a.nameRange(cmd),
					"group command %q has a script; typically unnecessary", cmd.Name))
			}
		})
	}
}

// nameRange is the span of the command's name on its definition line.
func (a *analysis) nameRange(cmd *ast.Command) diag.Range {
	col := 0
	if cmd.SourceLine < len(a.lines) {
		line := a.lines[cmd.SourceLine]
		for col < len(line) && line[col] == ' ' {
			col++
		}
	}
	return diag.RangeOf(cmd.SourceLine, col, col+len(cmd.Name))
}

// symbolTable unions every defined name in the document: builtins,
// var/const/fn declarations, env assignment keys, and all command
// parameters. The table is deliberately flat — names are not scoped to the
// command that declared them (see DESIGN.md).
func (a *analysis) symbolTable() map[string]bool {
	syms := make(map[string]bool, len(builtinNames)+len(a.decls)+len(a.envKeys))
	for _, b := range builtinNames {
		syms[b] = true
	}
	for _, d := range a.decls {
		syms[d.name] = true
	}
	for _, k := range a.envKeys {
		syms[k] = true
	}
	for _, root := range a.roots {
		root.Walk(func(cmd *ast.Command) {
			for _, p := range cmd.Parameters {
				syms[p.SymbolName()] = true
			}
		})
	}
	return syms
}

// checkTemplateRefs scans every content line for {{ name }} occurrences and
// flags names missing from the symbol table, with the exact span of the
// name inside the braces.
func (a *analysis) checkTemplateRefs() {
	syms := a.symbolTable()
	for i, line := range a.lines {
		if isBlankLine(line) {
			continue
		}
		for _, m := range templateRe.FindAllStringSubmatchIndex(line, -1) {
			name := line[m[2]:m[3]]
			if syms[name] {
				continue
			}
			r := diag.RangeOf(i, m[2], m[3])
			a.diags = append(a.diags, diag.Errorf(r,
				"undefined template variable %q", name))
		}
	}
}

// lineRangeOf locates needle on the given line for diagnostic spans,
// falling back to the full line when the text is not found verbatim.
func (a *analysis) lineRangeOf(line int, needle string) diag.Range {
	if line < len(a.lines) {
		if idx := strings.Index(a.lines[line], needle); idx >= 0 {
			return diag.RangeOf(line, idx, idx+len(needle))
		}
		return diag.RangeOf(line, 0, len(strings.TrimRight(a.lines[line], " \r\n")))
	}
	return diag.RangeOf(line, 0, 0)
}
