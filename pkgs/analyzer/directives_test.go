package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestlang/nest/pkgs/diag"
)

// wrap puts one directive line inside a minimal valid command so tests
// exercise only the directive under test.
func wrap(directive string) string {
	return fmt.Sprintf("cmd:\n    script: echo ok\n    %s\n", directive)
}

func checkOnly(t *testing.T, src string, want int) []diag.Diagnostic {
	t.Helper()
	diags := Check(src)
	require.Len(t, diags, want, "diagnostics: %v", diags)
	return diags
}

func TestEnvDirective(t *testing.T) {
	t.Run("assignment", func(t *testing.T) {
		checkOnly(t, wrap("env: PORT=8080"), 0)
	})
	t.Run("assignment with substitution", func(t *testing.T) {
		checkOnly(t, wrap("env: HOME_DIR=${HOME:-/root}"), 0)
	})
	t.Run("env file path", func(t *testing.T) {
		checkOnly(t, wrap("env: config/production.env"), 0)
		checkOnly(t, wrap("env: .env.local"), 0)
	})
	t.Run("empty", func(t *testing.T) {
		diags := checkOnly(t, wrap("env:"), 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "KEY=VALUE")
	})
	t.Run("neither assignment nor env file", func(t *testing.T) {
		diags := checkOnly(t, wrap("env: justaword"), 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
	})
	t.Run("invalid key", func(t *testing.T) {
		diags := checkOnly(t, wrap("env: 9PORT=8080"), 1)
		assert.Contains(t, diags[0].Message, `invalid environment key "9PORT"`)
	})
}

func TestLogsDirective(t *testing.T) {
	t.Run("json sink", func(t *testing.T) {
		checkOnly(t, wrap("logs.json: /var/log/app.log"), 0)
	})
	t.Run("plain sink", func(t *testing.T) {
		checkOnly(t, wrap("logs.plain: ./out.log"), 0)
	})
	t.Run("missing sink", func(t *testing.T) {
		diags := checkOnly(t, wrap("logs: /var/log/app.log"), 1)
		assert.Contains(t, diags[0].Message, "logs.json or logs.plain")
	})
	t.Run("unknown sink", func(t *testing.T) {
		diags := checkOnly(t, wrap("logs.xml: /var/log/app.log"), 1)
		assert.Contains(t, diags[0].Message, "logs.json or logs.plain")
	})
	t.Run("missing destination", func(t *testing.T) {
		diags := checkOnly(t, wrap("logs.json:"), 1)
		assert.Contains(t, diags[0].Message, "destination path")
	})
}

func TestValidateDirective(t *testing.T) {
	t.Run("matches form", func(t *testing.T) {
		checkOnly(t, "deploy(version: str):\n    script: echo {{version}}\n    validate: version matches /^v[0-9]+/\n", 0)
	})
	t.Run("in form", func(t *testing.T) {
		checkOnly(t, "deploy(env_name: str):\n    script: echo {{env_name}}\n    validate: env_name in [dev, staging, prod]\n", 0)
	})
	t.Run("scoped form", func(t *testing.T) {
		checkOnly(t, "deploy(version: str):\n    script: echo {{version}}\n    validate.version: /^v[0-9]+/\n", 0)
	})
	t.Run("malformed", func(t *testing.T) {
		diags := checkOnly(t, wrap("validate: whatever"), 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "matches")
	})
}

func TestMultilineBlocks(t *testing.T) {
	t.Run("well-formed block", func(t *testing.T) {
		src := `build:
    script: |
        echo step one
        echo step two
`
		checkOnly(t, src, 0)
	})

	t.Run("block starting with a shell comment", func(t *testing.T) {
		// Block lines are raw script text; a # line is content.
		src := `build:
    script: |
        # set up
        echo hi
`
		checkOnly(t, src, 0)
	})

	t.Run("block of only raw comment lines", func(t *testing.T) {
		src := `build:
    script: |
        # placeholder kept on purpose
`
		checkOnly(t, src, 0)
	})

	t.Run("block with interior blank line", func(t *testing.T) {
		src := `build:
    script: |
        echo one

        echo two
`
		checkOnly(t, src, 0)
	})

	t.Run("empty block at end of file", func(t *testing.T) {
		src := "build:\n    script: |\n"
		diags := checkOnly(t, src, 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "multiline script block is empty")
	})

	t.Run("marker followed by blank line", func(t *testing.T) {
		src := "build:\n    script: |\n\n    desc: oops\n"
		diags := Check(src)
		require.NotEmpty(t, diags)
		assert.Contains(t, diags[0].Message, "multiline script block is empty")
	})

	t.Run("marker followed by same indent", func(t *testing.T) {
		src := "build:\n    script: |\n    desc: same level\n"
		diags := Check(src)
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0].Message, "multiline script block is empty")
	})

	t.Run("missing marker", func(t *testing.T) {
		src := `build:
    script: npm run build
        npm run postbuild
`
		diags := checkOnly(t, src, 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, `missing the multiline marker "|"`)
	})

	t.Run("missing marker before a deeper command line", func(t *testing.T) {
		src := `a:
    script: echo hi
        b:
`
		diags := Check(src)
		found := false
		for _, d := range diags {
			if d.Severity == diag.Error && d.Range.Start.Line == 1 {
				assert.Contains(t, d.Message, `missing the multiline marker "|"`)
				found = true
			}
		}
		assert.True(t, found, "diagnostics: %v", diags)
	})

	t.Run("missing marker before a deeper declaration", func(t *testing.T) {
		src := `a:
    script: echo hi
        var X = 1
`
		diags := checkOnly(t, src, 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, `missing the multiline marker "|"`)
	})

	t.Run("deeper directive is not a missing marker", func(t *testing.T) {
		// A nested command's directive sits deeper but is structured; the
		// single-line script above it is fine.
		src := `outer:
    script: echo hi
    inner:
        script: echo nested
`
		checkOnly(t, src, 1) // only the group-with-script information note
	})
}

func TestEmptyScriptDirective(t *testing.T) {
	diags := Check("build:\n    script:\n")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Error, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "script directive is empty")
}

func TestUnbalancedSubstitution(t *testing.T) {
	t.Run("unbalanced", func(t *testing.T) {
		diags := checkOnly(t, wrap("cwd: $(git rev-parse --show-toplevel"), 1)
		assert.Equal(t, diag.Warning, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "unbalanced command substitution")
	})
	t.Run("balanced", func(t *testing.T) {
		checkOnly(t, wrap("cwd: $(git rev-parse --show-toplevel)"), 0)
	})
	t.Run("nested balanced", func(t *testing.T) {
		checkOnly(t, wrap("cwd: $(dirname $(pwd))"), 0)
	})
}

func TestBracketModifiers(t *testing.T) {
	t.Run("supported", func(t *testing.T) {
		checkOnly(t, wrap("depends[parallel]: lint test"), 0)
	})
	t.Run("unsupported kind", func(t *testing.T) {
		diags := checkOnly(t, wrap("desc[hide]: secret text"), 1)
		assert.Equal(t, diag.Error, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "does not support bracketed modifiers")
	})
}

func TestUnknownDirectiveDiagnostic(t *testing.T) {
	diags := checkOnly(t, wrap("depnds: build"), 1)
	assert.Equal(t, diag.Error, diags[0].Severity)
	assert.Contains(t, diags[0].Message, `unknown directive "depnds"`)
}
