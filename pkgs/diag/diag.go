// Package diag defines the diagnostic model shared by the analyzer and its
// host layers. Diagnostics are plain values collected into slices; the
// analyzer never returns an error for malformed input, it degrades every
// problem into a Diagnostic and keeps going.
package diag

import (
	"fmt"
	"sort"
)

// Source is the tag attached to every diagnostic produced by the analyzer.
const Source = "nest"

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Information
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Position is a zero-based line/column location, matching editor protocol
// conventions. Human-facing rendering converts to one-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open span: Start inclusive, End exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// RangeOf builds the common single-line range.
func RangeOf(line, startCol, endCol int) Range {
	return Range{
		Start: Position{Line: line, Column: startCol},
		End:   Position{Line: line, Column: endCol},
	}
}

// Diagnostic describes one problem found in a document.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
}

// Errorf builds an Error diagnostic at the given range.
func Errorf(r Range, format string, args ...any) Diagnostic {
	return Diagnostic{Range: r, Severity: Error, Message: fmt.Sprintf(format, args...), Source: Source}
}

// Warningf builds a Warning diagnostic at the given range.
func Warningf(r Range, format string, args ...any) Diagnostic {
	return Diagnostic{Range: r, Severity: Warning, Message: fmt.Sprintf(format, args...), Source: Source}
}

// Infof builds an Information diagnostic at the given range.
func Infof(r Range, format string, args ...any) Diagnostic {
	return Diagnostic{Range: r, Severity: Information, Message: fmt.Sprintf(format, args...), Source: Source}
}

// String renders the diagnostic for terminal output, one-based.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s",
		d.Range.Start.Line+1, d.Range.Start.Column+1, d.Severity, d.Message)
}

// Sort orders diagnostics by position, then severity, then message. The
// analyzer sorts its output so identical input always yields an identical
// list.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Message < b.Message
	})
}

// HasErrors reports whether any diagnostic in the list is Error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
