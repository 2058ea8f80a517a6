package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nestlang/nest/internal/config"
	"github.com/nestlang/nest/pkgs/analyzer"
	"github.com/nestlang/nest/pkgs/diag"
)

func newCheckCommand() *cobra.Command {
	var (
		format      string
		minSeverity string
		noColor     bool
		noSuggest   bool
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Analyze a document and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			cfg, err := config.Load(filepath.Dir(file), ".")
			if err != nil {
				return err
			}
			// Flags override the configuration file.
			if format != "" {
				cfg.Output = format
			}
			if minSeverity != "" {
				cfg.MinSeverity = minSeverity
			}
			if noSuggest {
				cfg.NoSuggest = true
			}

			if watch {
				return watchAndCheck(cmd.OutOrStdout(), file, cfg, noColor)
			}

			hadErrors, err := runCheck(cmd.OutOrStdout(), file, cfg, noColor)
			if err != nil {
				return err
			}
			if hadErrors {
				os.Exit(ExitDiagnostics)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: text or json (overrides nest.yaml)")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "Lowest severity to report: error, warning, or information")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&noSuggest, "no-suggest", false, "Disable did-you-mean hints")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-analyze whenever the file changes")

	return cmd
}

// runCheck analyzes one file and renders the result. It reports whether any
// Error-severity diagnostics were found.
func runCheck(w io.Writer, file string, cfg config.Config, noColor bool) (bool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", file, err)
	}

	diags := analyzer.Check(string(data), analyzer.WithPath(file))
	diags = filterSeverity(diags, cfg.Severity())

	switch cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if diags == nil {
			diags = []diag.Diagnostic{}
		}
		if err := enc.Encode(diags); err != nil {
			return false, err
		}
	default:
		renderText(w, file, diags, useColor(noColor), !cfg.NoSuggest)
	}

	return diag.HasErrors(diags), nil
}

// filterSeverity drops diagnostics below the configured threshold.
// Severities order Error < Warning < Information, so "keep at least
// Warning" means keeping values <= diag.Warning.
func filterSeverity(diags []diag.Diagnostic, min diag.Severity) []diag.Diagnostic {
	if min == diag.Information {
		return diags
	}
	var kept []diag.Diagnostic
	for _, d := range diags {
		if d.Severity <= min {
			kept = append(kept, d)
		}
	}
	return kept
}

// watchAndCheck re-runs the analysis whenever the file is written, until
// interrupted. Debouncing policy stays here in the host layer; the analyzer
// itself is a pure call.
func watchAndCheck(w io.Writer, file string, cfg config.Config, noColor bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: editors often replace files on
	// save, which would drop a file-level watch.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(file), err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	if _, err := runCheck(w, file, cfg, noColor); err != nil {
		return err
	}

	target := filepath.Clean(file)
	for {
		select {
		case <-interrupt:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintln(w)
			if _, err := runCheck(w, file, cfg, noColor); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
