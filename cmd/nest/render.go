package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/nestlang/nest/pkgs/analyzer"
	"github.com/nestlang/nest/pkgs/diag"
)

// ANSI color codes, matching the conventions of the plan formatter.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// useColor determines if color output should be used. Respects the
// --no-color flag and the NO_COLOR environment variable.
func useColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func colorize(text, color string, enabled bool) string {
	if !enabled {
		return text
	}
	return color + text + colorReset
}

func severityColor(s diag.Severity) string {
	switch s {
	case diag.Error:
		return colorRed
	case diag.Warning:
		return colorYellow
	default:
		return colorCyan
	}
}

// renderText writes compiler-style one-line diagnostics with an optional
// did-you-mean hint under unknown-directive errors.
func renderText(w io.Writer, file string, diags []diag.Diagnostic, color, suggest bool) {
	var errors, warnings int
	for _, d := range diags {
		switch d.Severity {
		case diag.Error:
			errors++
		case diag.Warning:
			warnings++
		}

		label := colorize(d.Severity.String(), severityColor(d.Severity), color)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			file, d.Range.Start.Line+1, d.Range.Start.Column+1, label, d.Message)

		if suggest {
			if hint := suggestion(d); hint != "" {
				fmt.Fprintf(w, "  %s\n", colorize(hint, colorGray, color))
			}
		}
	}

	if len(diags) == 0 {
		fmt.Fprintf(w, "%s: no problems found\n", file)
		return
	}
	fmt.Fprintf(w, "%d problem(s): %d error(s), %d warning(s)\n", len(diags), errors, warnings)
}

var unknownDirectiveRe = regexp.MustCompile(`unknown directive "([^"]+)"`)

// suggestion derives a did-you-mean hint for unknown-directive errors by
// fuzzy-ranking the token against the directive vocabulary. This lives in
// the host layer on purpose: the analyzer reports, the host advises.
func suggestion(d diag.Diagnostic) string {
	if d.Severity != diag.Error {
		return ""
	}
	m := unknownDirectiveRe.FindStringSubmatch(d.Message)
	if m == nil {
		return ""
	}
	ranks := fuzzy.RankFindFold(m[1], analyzer.DirectiveKinds())
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return fmt.Sprintf("did you mean %q?", ranks[0].Target)
}
