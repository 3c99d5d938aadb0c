package rules

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/wardenhq/warden-core/types"
)

// LoadKDL decodes a KDL rule file. Expected shape:
//
//	scan {
//	    max_size_mb 100
//	    use_gitignore true
//	}
//	rule "no-todo" {
//	    pattern "TODO"
//	}
//	metric_rule "max-size" {
//	    metric "size_bytes"
//	    threshold 1024
//	}
func LoadKDL(path string) (*RuleFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL rule file: %w", err)
	}

	rf := defaultRuleFile()

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "scan":
			parseScanNode(rf, n)
		case "rule":
			parseRuleNode(rf, n)
		case "metric_rule":
			parseMetricRuleNode(rf, n)
		}
	}

	return rf, nil
}

func parseScanNode(rf *RuleFile, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "max_size_mb":
			if v, ok := firstIntArg(cn); ok {
				rf.Scan.MaxSizeMB = int64(v)
			}
		case "use_gitignore":
			if b, ok := firstBoolArg(cn); ok {
				rf.Scan.UseGitignore = b
			}
		}
	}
}

func parseRuleNode(rf *RuleFile, n *document.Node) {
	id, _ := firstStringArg(n)
	var pattern string
	for _, cn := range n.Children {
		if nodeName(cn) == "pattern" {
			pattern, _ = firstStringArg(cn)
		}
	}
	if id == "" || pattern == "" {
		return
	}
	rf.Rules = append(rf.Rules, types.Rule{ID: id, Pattern: pattern})
}

func parseMetricRuleNode(rf *RuleFile, n *document.Node) {
	id, _ := firstStringArg(n)
	var metric string
	var threshold int64
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "metric":
			metric, _ = firstStringArg(cn)
		case "threshold":
			if v, ok := firstIntArg(cn); ok {
				threshold = int64(v)
			}
		}
	}
	if id == "" {
		return
	}
	rf.appendMetricRule(id, metric, threshold)
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
