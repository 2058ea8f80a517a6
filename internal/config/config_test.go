package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestlang/nest/pkgs/diag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFirstMatch(t *testing.T) {
	first := writeConfig(t, "output: json\nmin_severity: warning\n")
	second := writeConfig(t, "output: text\n")

	cfg, err := Load(first, second)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "warning", cfg.MinSeverity)
}

func TestLoadSkipsDirsWithoutFile(t *testing.T) {
	dir := writeConfig(t, "no_suggest: true\n")

	cfg, err := Load(t.TempDir(), dir)
	require.NoError(t, err)
	assert.True(t, cfg.NoSuggest)
	assert.Equal(t, "text", cfg.Output, "unset fields keep defaults")
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := writeConfig(t, "output: [unclosed\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownOutput(t *testing.T) {
	dir := writeConfig(t, "output: xml\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestLoadRejectsUnknownSeverity(t *testing.T) {
	dir := writeConfig(t, "min_severity: fatal\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported min_severity")
}

func TestSeverityMapping(t *testing.T) {
	assert.Equal(t, diag.Error, Config{MinSeverity: "error"}.Severity())
	assert.Equal(t, diag.Warning, Config{MinSeverity: "warning"}.Severity())
	assert.Equal(t, diag.Information, Config{MinSeverity: "information"}.Severity())
	assert.Equal(t, diag.Information, Config{}.Severity())
}
