// Package analyzer turns raw Nest document text into a command tree and a
// list of diagnostics, without executing anything. One call analyzes one
// document from scratch; there is no cross-call state, so repeated analysis
// of identical text is idempotent.
package analyzer

import (
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/nestlang/nest/pkgs/ast"
	"github.com/nestlang/nest/pkgs/diag"
)

// Option configures a single analysis run.
type Option func(*options)

type options struct {
	path string
	fsys fs.FS
}

// WithPath supplies the document's own location, used only to resolve
// relative import paths.
func WithPath(p string) Option {
	return func(o *options) { o.path = p }
}

// WithFS overrides the filesystem used for import existence checks.
// Defaults to the host OS; tests pass an fstest.MapFS to stay hermetic.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.fsys = fsys }
}

// Check analyzes the document and returns its diagnostics, ordered by
// source position.
func Check(source string, opts ...Option) []diag.Diagnostic {
	a := run(source, opts...)
	diag.Sort(a.diags)
	return a.diags
}

// Tree analyzes the document and returns the root commands of the finished
// tree. Tree and Check share the same passes; the caller picks the output.
func Tree(source string, opts ...Option) []*ast.Command {
	return run(source, opts...).roots
}

// declaration is a global var/const/fn declaration collected during the
// structural pass.
type declaration struct {
	keyword string
	name    string
	line    int
}

// importDecl is one import statement awaiting resolution in the semantic
// pass.
type importDecl struct {
	selector string // "" for whole-file imports, "*" for the wildcard form
	path     string // as written in the source
	line     int
}

// analysis carries the state of one run. Diagnostics are threaded through
// it explicitly; nothing lives outside the call.
type analysis struct {
	opts    options
	lines   []string
	diags   []diag.Diagnostic
	roots   []*ast.Command
	stack   openStack
	decls   []declaration
	imports []importDecl
	envKeys []string
}

func run(source string, opts ...Option) *analysis {
	o := options{fsys: osFS{}}
	for _, opt := range opts {
		opt(&o)
	}

	a := &analysis{
		opts:  o,
		lines: strings.Split(source, "\n"),
	}
	a.structuralPass()
	a.semanticPass()
	return a
}

// structuralPass classifies the document line by line, building the tree
// and running the inline parameter and directive checks.
func (a *analysis) structuralPass() {
	i := 0
	for i < len(a.lines) {
		c := classify(a.lines[i])
		switch c.kind {
		case lineBlank, linePlain:
			i++
		case lineUnknownDirective:
			r := diag.RangeOf(i, c.keywordCol, c.keywordCol+len(c.dirName))
			a.diags = append(a.diags, diag.Errorf(r, "unknown directive %q", c.dirName))
			i++
		case lineMalformedCommand:
			r := diag.RangeOf(i, c.spaces, len(strings.TrimRight(a.lines[i], " \r\n")))
			a.diags = append(a.diags, diag.Errorf(r,
				"malformed command signature %q (expected name(params):)", c.name))
			i++
		case lineDeclaration:
			a.declaration(i, c)
			i++
		case lineCommand:
			cmd := &ast.Command{Name: c.name, SourceLine: i}
			if c.hasParams {
				// First column inside the parentheses.
				base := c.spaces + len(c.name) + 1
				a.parseParameters(cmd, c.paramText, i, base)
			}
			a.attachCommand(cmd, c.indent)
			i++
		case lineDirective:
			i = a.directive(i, c)
		}
	}
}

var (
	varDeclRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*\S.*$`)
	fnDeclRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(.*\)\s*=\s*\S.*$`)
)

// declaration records a global declaration or reports it as malformed.
func (a *analysis) declaration(i int, c classified) {
	declRange := func() diag.Range {
		return diag.RangeOf(i, c.spaces, len(strings.TrimRight(a.lines[i], " \r\n")))
	}

	switch c.declKeyword {
	case "var", "const":
		m := varDeclRe.FindStringSubmatch(c.declRest)
		if m == nil {
			a.diags = append(a.diags, diag.Errorf(declRange(),
				"malformed %s declaration (expected %s NAME = value)", c.declKeyword, c.declKeyword))
			return
		}
		a.decls = append(a.decls, declaration{keyword: c.declKeyword, name: m[1], line: i})
	case "fn":
		m := fnDeclRe.FindStringSubmatch(c.declRest)
		if m == nil {
			a.diags = append(a.diags, diag.Errorf(declRange(),
				"malformed fn declaration (expected fn NAME(args) = expression)"))
			return
		}
		a.decls = append(a.decls, declaration{keyword: "fn", name: m[1], line: i})
	case "import":
		sel, path, ok := parseImportRest(c.declRest)
		if !ok {
			a.diags = append(a.diags, diag.Errorf(declRange(),
				"malformed import (expected import PATH or import SYMBOL from PATH)"))
			return
		}
		a.imports = append(a.imports, importDecl{selector: sel, path: path, line: i})
	}
}

// parseImportRest splits the text after the import keyword into selector
// and path.
func parseImportRest(rest string) (selector, path string, ok bool) {
	if rest == "" {
		return "", "", false
	}
	if before, after, found := strings.Cut(rest, " from "); found {
		selector = strings.TrimSpace(before)
		path = unquote(strings.TrimSpace(after))
		if selector == "" || path == "" || strings.ContainsAny(path, " \t") {
			return "", "", false
		}
		return selector, path, true
	}
	path = unquote(rest)
	if path == "" || strings.ContainsAny(path, " \t") {
		return "", "", false
	}
	return "", path, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// osFS adapts the host filesystem to fs.FS without restricting paths, so
// absolute and parent-relative imports resolve the way the OS would.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }
