// Package rules loads rule definitions from caller-supplied files. Three
// formats decode to the same RuleFile: KDL, TOML, and YAML.
package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden-core/internal/debug"
	"github.com/wardenhq/warden-core/types"
)

// ScanSettings carries the discovery options a rule file can set.
type ScanSettings struct {
	MaxSizeMB    int64
	UseGitignore bool
}

// RuleFile is the decoded form of a rule definition file.
type RuleFile struct {
	Scan        ScanSettings
	Rules       []types.Rule
	MetricRules []types.MetricRule
}

// defaultRuleFile returns a RuleFile with the engine defaults; loaders
// only override fields the file sets.
func defaultRuleFile() *RuleFile {
	return &RuleFile{
		Scan: ScanSettings{
			MaxSizeMB:    100,
			UseGitignore: true,
		},
	}
}

// Load decodes a rule file, dispatching on its extension.
func Load(path string) (*RuleFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kdl":
		return LoadKDL(path)
	case ".toml":
		return LoadTOML(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	}
	return nil, fmt.Errorf("unsupported rule file format: %s", path)
}

// appendMetricRule validates the metric name and appends the rule,
// dropping rules with unknown metrics.
func (rf *RuleFile) appendMetricRule(id, metric string, threshold int64) {
	mt, ok := types.ParseMetricType(metric)
	if !ok {
		debug.LogRules("dropping metric rule %s: unknown metric %q\n", id, metric)
		return
	}
	rf.MetricRules = append(rf.MetricRules, types.MetricRule{
		ID:        id,
		Metric:    mt,
		Threshold: threshold,
	})
}
