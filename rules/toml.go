package rules

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/wardenhq/warden-core/types"
)

// tomlRuleFile mirrors the TOML rule file shape:
//
//	[scan]
//	max_size_mb = 100
//	use_gitignore = true
//
//	[[rule]]
//	id = "no-todo"
//	pattern = "TODO"
//
//	[[metric_rule]]
//	id = "max-size"
//	metric = "size_bytes"
//	threshold = 1024
type tomlRuleFile struct {
	Scan struct {
		MaxSizeMB    *int64 `toml:"max_size_mb"`
		UseGitignore *bool  `toml:"use_gitignore"`
	} `toml:"scan"`
	Rules []struct {
		ID      string `toml:"id"`
		Pattern string `toml:"pattern"`
	} `toml:"rule"`
	MetricRules []struct {
		ID        string `toml:"id"`
		Metric    string `toml:"metric"`
		Threshold int64  `toml:"threshold"`
	} `toml:"metric_rule"`
}

// LoadTOML decodes a TOML rule file.
func LoadTOML(path string) (*RuleFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var doc tomlRuleFile
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML rule file: %w", err)
	}

	rf := defaultRuleFile()
	if doc.Scan.MaxSizeMB != nil {
		rf.Scan.MaxSizeMB = *doc.Scan.MaxSizeMB
	}
	if doc.Scan.UseGitignore != nil {
		rf.Scan.UseGitignore = *doc.Scan.UseGitignore
	}
	for _, r := range doc.Rules {
		if r.ID == "" || r.Pattern == "" {
			continue
		}
		rf.Rules = append(rf.Rules, types.Rule{ID: r.ID, Pattern: r.Pattern})
	}
	for _, mr := range doc.MetricRules {
		if mr.ID == "" {
			continue
		}
		rf.appendMetricRule(mr.ID, mr.Metric, mr.Threshold)
	}

	return rf, nil
}
