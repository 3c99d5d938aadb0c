package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wardenhq/warden-core/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSizeRuleViolation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.txt", "exactly twenty chars") // 20 bytes

	results := Validate([]string{path}, nil, []types.MetricRule{
		{ID: "max-size", Metric: types.MetricSizeBytes, Threshold: 10},
	})
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "max-size", r.RuleID)
	assert.Equal(t, path, r.FilePath)
	assert.Equal(t, 0, r.Line)
	assert.Empty(t, r.Snippet)
	assert.Contains(t, r.Message, "20")
	assert.Contains(t, r.Message, "10")
}

func TestSizeRuleAtThresholdPasses(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.txt", "exactly10!")

	results := Validate([]string{path}, nil, []types.MetricRule{
		{ID: "max-size", Metric: types.MetricSizeBytes, Threshold: 10},
	})
	assert.Empty(t, results)
}

func TestLineCountRuleViolation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "long.txt", "one\ntwo\nthree\nfour\n")

	results := Validate([]string{path}, nil, []types.MetricRule{
		{ID: "max-lines", Metric: types.MetricLineCount, Threshold: 3},
	})
	require.Len(t, results, 1)

	assert.Equal(t, "max-lines", results[0].RuleID)
	assert.Equal(t, 0, results[0].Line)
	assert.Contains(t, results[0].Message, "4")
	assert.Contains(t, results[0].Message, "3")
}

func TestRegexRuleViolation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "code.py", "import os\n  eval(data)\n")

	results := Validate([]string{path}, []types.Rule{
		{ID: "no-eval", Pattern: `eval\(`},
	}, nil)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "no-eval", r.RuleID)
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, "eval(data)", r.Snippet)
}

func TestCompositeRuleSet(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "code.py", "line one\nTODO later\nline three\n")

	results := Validate([]string{path},
		[]types.Rule{{ID: "no-todo", Pattern: "TODO"}},
		[]types.MetricRule{
			{ID: "max-size", Metric: types.MetricSizeBytes, Threshold: 5},
			{ID: "max-lines", Metric: types.MetricLineCount, Threshold: 100},
		})

	require.Len(t, results, 2)

	byRule := make(map[string]types.ValidationResult)
	for _, r := range results {
		byRule[r.RuleID] = r
	}
	assert.Contains(t, byRule, "max-size")
	assert.Contains(t, byRule, "no-todo")
	assert.NotContains(t, byRule, "max-lines")
	assert.Equal(t, 2, byRule["no-todo"].Line)
}

func TestEmptyRuleSets(t *testing.T) {
	results := Validate([]string{"/nonexistent/file.txt"}, nil, nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestUnknownMetricDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "content\n")

	results := Validate([]string{path}, nil, []types.MetricRule{
		{ID: "weird", Metric: "complexity", Threshold: 1},
	})
	assert.Empty(t, results)
}

func TestInvalidRegexRuleDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "TODO\n")

	results := Validate([]string{path}, []types.Rule{
		{ID: "bad", Pattern: "(["},
		{ID: "todo", Pattern: "TODO"},
	}, nil)
	require.Len(t, results, 1)
	assert.Equal(t, "todo", results[0].RuleID)
}

func TestUnreadableFileYieldsNoViolations(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")

	results := Validate([]string{missing},
		[]types.Rule{{ID: "todo", Pattern: "TODO"}},
		[]types.MetricRule{{ID: "max-size", Metric: types.MetricSizeBytes, Threshold: 1}})
	assert.Empty(t, results)
}

func TestMultipleFilesAttributedCorrectly(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.txt", "fine\n")
	dirty := writeFile(t, dir, "dirty.txt", "TODO\n")

	results := Validate([]string{clean, dirty},
		[]types.Rule{{ID: "todo", Pattern: "TODO"}}, nil)
	require.Len(t, results, 1)
	assert.Equal(t, dirty, results[0].FilePath)
}
