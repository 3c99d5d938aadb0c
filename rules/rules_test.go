package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden-core/types"
)

const kdlRules = `
scan {
    max_size_mb 50
    use_gitignore false
}
rule "no-todo" {
    pattern "TODO"
}
rule "no-eval" {
    pattern "eval\\("
}
metric_rule "max-size" {
    metric "size_bytes"
    threshold 1024
}
metric_rule "max-lines" {
    metric "line_count"
    threshold 500
}
`

const tomlRules = `
[scan]
max_size_mb = 50
use_gitignore = false

[[rule]]
id = "no-todo"
pattern = "TODO"

[[rule]]
id = "no-eval"
pattern = 'eval\('

[[metric_rule]]
id = "max-size"
metric = "size_bytes"
threshold = 1024

[[metric_rule]]
id = "max-lines"
metric = "line_count"
threshold = 500
`

const yamlRules = `
scan:
  max_size_mb: 50
  use_gitignore: false
rules:
  - id: no-todo
    pattern: TODO
  - id: no-eval
    pattern: 'eval\('
metric_rules:
  - id: max-size
    metric: size_bytes
    threshold: 1024
  - id: max-lines
    metric: line_count
    threshold: 500
`

func writeRuleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assertCanonicalRuleFile(t *testing.T, rf *RuleFile) {
	t.Helper()
	assert.Equal(t, int64(50), rf.Scan.MaxSizeMB)
	assert.False(t, rf.Scan.UseGitignore)
	assert.Equal(t, []types.Rule{
		{ID: "no-todo", Pattern: "TODO"},
		{ID: "no-eval", Pattern: `eval\(`},
	}, rf.Rules)
	assert.Equal(t, []types.MetricRule{
		{ID: "max-size", Metric: types.MetricSizeBytes, Threshold: 1024},
		{ID: "max-lines", Metric: types.MetricLineCount, Threshold: 500},
	}, rf.MetricRules)
}

func TestLoadFormatsAgree(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"kdl", "warden.kdl", kdlRules},
		{"toml", "warden.toml", tomlRules},
		{"yaml", "warden.yaml", yamlRules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := Load(writeRuleFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assertCanonicalRuleFile(t, rf)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	rf, err := Load(writeRuleFile(t, "empty.yaml", "rules:\n  - id: r\n    pattern: x\n"))
	require.NoError(t, err)

	assert.Equal(t, int64(100), rf.Scan.MaxSizeMB)
	assert.True(t, rf.Scan.UseGitignore)
	assert.Len(t, rf.Rules, 1)
}

func TestLoadUnknownMetricDropped(t *testing.T) {
	content := "metric_rules:\n  - id: weird\n    metric: complexity\n    threshold: 9\n  - id: ok\n    metric: line_count\n    threshold: 10\n"
	rf, err := Load(writeRuleFile(t, "m.yml", content))
	require.NoError(t, err)

	require.Len(t, rf.MetricRules, 1)
	assert.Equal(t, "ok", rf.MetricRules[0].ID)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeRuleFile(t, "rules.ini", "[scan]\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedContent(t *testing.T) {
	_, err := Load(writeRuleFile(t, "bad.toml", "not toml at all ]]["))
	assert.Error(t, err)

	_, err = Load(writeRuleFile(t, "bad.yaml", ":\n  - ]["))
	assert.Error(t, err)

	_, err = Load(writeRuleFile(t, "bad.kdl", `rule "unterminated`))
	assert.Error(t, err)
}

func TestKDLRuleWithoutPatternSkipped(t *testing.T) {
	content := "rule \"half\" {\n}\nrule \"whole\" {\n    pattern \"x\"\n}\n"
	rf, err := Load(writeRuleFile(t, "partial.kdl", content))
	require.NoError(t, err)

	require.Len(t, rf.Rules, 1)
	assert.Equal(t, "whole", rf.Rules[0].ID)
}
