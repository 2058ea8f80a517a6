// Package config loads the optional nest.yaml configuration used by the
// CLI. The analyzer itself takes no configuration; everything here affects
// only how results are rendered.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nestlang/nest/pkgs/diag"
)

// FileName is the configuration file looked up next to the analyzed
// document, then in the working directory.
const FileName = "nest.yaml"

// Config controls CLI output.
type Config struct {
	Output      string `yaml:"output"`       // "text" or "json"
	MinSeverity string `yaml:"min_severity"` // "error", "warning", "information"
	NoSuggest   bool   `yaml:"no_suggest"`   // disable did-you-mean hints
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Output: "text", MinSeverity: "information"}
}

// Load searches the given directories in order for a nest.yaml and parses
// the first one found. A missing file is not an error; a malformed one is.
func Load(dirs ...string) (Config, error) {
	cfg := Default()
	for _, dir := range dirs {
		path := filepath.Join(dir, FileName)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := cfg.validate(); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", path, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Output == "" {
		c.Output = "text"
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("unsupported output %q (expected text or json)", c.Output)
	}
	if c.MinSeverity == "" {
		c.MinSeverity = "information"
	}
	switch c.MinSeverity {
	case "error", "warning", "information":
	default:
		return fmt.Errorf("unsupported min_severity %q", c.MinSeverity)
	}
	return nil
}

// Severity maps the configured threshold onto the diagnostic model. The
// zero threshold keeps everything.
func (c Config) Severity() diag.Severity {
	switch c.MinSeverity {
	case "error":
		return diag.Error
	case "warning":
		return diag.Warning
	default:
		return diag.Information
	}
}
