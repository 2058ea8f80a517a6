package analyzer

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nestlang/nest/pkgs/diag"
)

// checkImports resolves every import against the filesystem: the target
// must exist, and for selective imports the named command must be defined
// at the top level of the target file. Reads are best-effort — at most one
// per distinct path, and a failed read silently skips the symbol check
// rather than failing the analysis.
func (a *analysis) checkImports() {
	contents := make(map[string]*string)

	for _, imp := range a.imports {
		resolved := a.resolveImportPath(imp.path)
		if _, err := fs.Stat(a.opts.fsys, resolved); err != nil {
			a.diags = append(a.diags, diag.Errorf(a.lineRangeOf(imp.line, imp.path),
				"imported file %q not found", imp.path))
			continue
		}
		if imp.selector == "" || imp.selector == "*" {
			continue
		}

		content, seen := contents[resolved]
		if !seen {
			if b, err := fs.ReadFile(a.opts.fsys, resolved); err == nil {
				s := string(b)
				content = &s
			}
			contents[resolved] = content
		}
		if content == nil {
			continue
		}
		if !hasTopLevelCommand(*content, imp.selector) {
			a.diags = append(a.diags, diag.Errorf(a.lineRangeOf(imp.line, imp.selector),
				"command %q not found in %q", imp.selector, imp.path))
		}
	}
}

// resolveImportPath resolves the written path relative to the document's
// own location when one was supplied.
func (a *analysis) resolveImportPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	dir := "."
	if a.opts.path != "" {
		dir = filepath.Dir(a.opts.path)
	}
	return filepath.Join(dir, p)
}

// hasTopLevelCommand scans imported text for a top-level command definition
// with the given name. Only the line shape matters; the imported file is
// not analyzed.
func hasTopLevelCommand(content, name string) bool {
	for _, raw := range strings.Split(content, "\n") {
		c := classify(raw)
		if c.kind == lineCommand && c.indent == 0 && c.name == name {
			return true
		}
	}
	return false
}
