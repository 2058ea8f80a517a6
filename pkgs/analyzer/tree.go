package analyzer

import (
	"github.com/nestlang/nest/pkgs/ast"
)

// openEntry is one open scope on the indentation stack: a command that can
// still receive children and directives.
type openEntry struct {
	indent int
	node   *ast.Command
}

// openStack is the chain of currently-open ancestors, ordered by strictly
// increasing indent.
type openStack []openEntry

// owner returns the nearest open ancestor with indent strictly less than
// the given indent, or nil. Directives use this without mutating the stack;
// a directive does not open a scope.
func (s openStack) owner(indent int) *ast.Command {
	for k := len(s) - 1; k >= 0; k-- {
		if s[k].indent < indent {
			return s[k].node
		}
	}
	return nil
}

// closeAt pops every entry with indent >= the given indent; those scopes
// close as a new command begins at that indent.
func (s *openStack) closeAt(indent int) {
	k := len(*s)
	for k > 0 && (*s)[k-1].indent >= indent {
		k--
	}
	*s = (*s)[:k]
}

func (s *openStack) push(indent int, node *ast.Command) {
	*s = append(*s, openEntry{indent: indent, node: node})
}

// attachCommand links a freshly parsed command into the forest based on its
// indentation and updates the open-scope stack.
func (a *analysis) attachCommand(cmd *ast.Command, indent int) {
	a.stack.closeAt(indent)
	if parent := a.stack.owner(indent); parent != nil {
		parent.Children = append(parent.Children, cmd)
	} else {
		a.roots = append(a.roots, cmd)
	}
	a.stack.push(indent, cmd)
}
