package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBlankAndComment(t *testing.T) {
	tests := []string{"", "   ", "# a comment", "    # indented comment", "\t"}
	for _, line := range tests {
		c := classify(line)
		assert.Equal(t, lineBlank, c.kind, "line %q", line)
	}
}

func TestClassifyCommandDefinitions(t *testing.T) {
	tests := []struct {
		line      string
		name      string
		hasParams bool
		indent    int
	}{
		{"build:", "build", false, 0},
		{"build(target: str):", "build", true, 0},
		{"    deploy-prod:", "deploy-prod", false, 1},
		{"        _internal:", "_internal", false, 2},
		{"build(a: str, b: bool):  ", "build", true, 0},
	}
	for _, tt := range tests {
		c := classify(tt.line)
		assert.Equal(t, lineCommand, c.kind, "line %q", tt.line)
		assert.Equal(t, tt.name, c.name, "line %q", tt.line)
		assert.Equal(t, tt.hasParams, c.hasParams, "line %q", tt.line)
		assert.Equal(t, tt.indent, c.indent, "line %q", tt.line)
	}
}

func TestClassifyDirectives(t *testing.T) {
	tests := []struct {
		line     string
		kind     string
		name     string
		modifier string
		value    string
	}{
		{"    desc: builds the project", "desc", "desc", "", "builds the project"},
		{"    @depends: build test", "depends", "depends", "", "build test"},
		{"    logs.json: /var/log/app.log", "logs", "logs.json", "json", "/var/log/app.log"},
		{"    script[hide]: echo secret", "script", "script[hide]", "hide", "echo secret"},
		{"    script: |", "script", "script", "", "|"},
		{"    else:", "else", "else", "", ""},
		{"    validate.version: /^v[0-9]+/", "validate", "validate.version", "version", "/^v[0-9]+/"},
	}
	for _, tt := range tests {
		c := classify(tt.line)
		assert.Equal(t, lineDirective, c.kind, "line %q", tt.line)
		assert.Equal(t, tt.kind, c.dirKind, "line %q", tt.line)
		assert.Equal(t, tt.name, c.dirName, "line %q", tt.line)
		assert.Equal(t, tt.modifier, c.dirMod, "line %q", tt.line)
		assert.Equal(t, tt.value, c.value, "line %q", tt.line)
	}
}

func TestClassifyDirectiveKeywordWinsOverCommand(t *testing.T) {
	// `script:` alone could read as a command named "script"; the directive
	// vocabulary takes precedence.
	c := classify("    script:")
	assert.Equal(t, lineDirective, c.kind)
	assert.Equal(t, "script", c.dirKind)
	assert.Equal(t, "", c.value)
}

func TestClassifyDeclarations(t *testing.T) {
	tests := []struct {
		line    string
		keyword string
	}{
		{"var GREETING = hello", "var"},
		{"const VERSION = 1.0", "const"},
		{"fn double(x) = x * 2", "fn"},
		{"import ./common.nest", "import"},
		{"    var NESTED = ok", "var"},
	}
	for _, tt := range tests {
		c := classify(tt.line)
		assert.Equal(t, lineDeclaration, c.kind, "line %q", tt.line)
		assert.Equal(t, tt.keyword, c.declKeyword, "line %q", tt.line)
	}
}

func TestClassifyUnknownDirective(t *testing.T) {
	c := classify("    depnds: build")
	assert.Equal(t, lineUnknownDirective, c.kind)
	assert.Equal(t, "depnds", c.dirName)
	assert.Equal(t, 4, c.keywordCol)

	// The @ marker forces directive shape even without a value.
	c = classify("    @frobnicate:")
	assert.Equal(t, lineUnknownDirective, c.kind)
	assert.Equal(t, "frobnicate", c.dirName)
	assert.Equal(t, 5, c.keywordCol)
}

func TestClassifyPlain(t *testing.T) {
	tests := []string{
		"        echo hello",
		"    npm install && npm test",
		"some stray text",
		"echo hello(x)", // paren not attached to the leading word
	}
	for _, line := range tests {
		c := classify(line)
		assert.Equal(t, linePlain, c.kind, "line %q", line)
	}
}

func TestClassifyMalformedCommandSignature(t *testing.T) {
	tests := []struct {
		line string
		name string
	}{
		{"build(x: str", "build"},
		{"deploy(env_name: str:", "deploy"},
		{"    run(a, b", "run"},
	}
	for _, tt := range tests {
		c := classify(tt.line)
		assert.Equal(t, lineMalformedCommand, c.kind, "line %q", tt.line)
		assert.Equal(t, tt.name, c.name, "line %q", tt.line)
	}
}

func TestIndentLevelOf(t *testing.T) {
	assert.Equal(t, 0, indentLevelOf("build:"))
	assert.Equal(t, 0, indentLevelOf("   three-spaces"))
	assert.Equal(t, 1, indentLevelOf("    four"))
	assert.Equal(t, 2, indentLevelOf("        eight"))
}
