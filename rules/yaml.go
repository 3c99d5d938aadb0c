package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wardenhq/warden-core/types"
)

// yamlRuleFile mirrors the YAML rule file shape:
//
//	scan:
//	  max_size_mb: 100
//	  use_gitignore: true
//	rules:
//	  - id: no-todo
//	    pattern: TODO
//	metric_rules:
//	  - id: max-size
//	    metric: size_bytes
//	    threshold: 1024
type yamlRuleFile struct {
	Scan struct {
		MaxSizeMB    *int64 `yaml:"max_size_mb"`
		UseGitignore *bool  `yaml:"use_gitignore"`
	} `yaml:"scan"`
	Rules []struct {
		ID      string `yaml:"id"`
		Pattern string `yaml:"pattern"`
	} `yaml:"rules"`
	MetricRules []struct {
		ID        string `yaml:"id"`
		Metric    string `yaml:"metric"`
		Threshold int64  `yaml:"threshold"`
	} `yaml:"metric_rules"`
}

// LoadYAML decodes a YAML rule file.
func LoadYAML(path string) (*RuleFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var doc yamlRuleFile
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rule file: %w", err)
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
