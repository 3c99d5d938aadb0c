// Package validator evaluates composite rule sets against files: numeric
// metric thresholds (file size, line count) plus regex patterns.
package validator

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wardenhq/warden-core/internal/concurrency"
	"github.com/wardenhq/warden-core/internal/debug"
	scanerrors "github.com/wardenhq/warden-core/internal/errors"
	"github.com/wardenhq/warden-core/types"
)

type compiledRule struct {
	id string
	re *regexp.Regexp
}

// Validate evaluates every rule against every path in parallel. Each
// rule category triggers its read pass only when the category is
// non-empty: size rules read metadata only, line-count rules cost one
// line-counting pass, regex rules cost one line-scanning pass.
// Unreadable files yield no violations.
func Validate(paths []string, regexRules []types.Rule, metricRules []types.MetricRule) []types.ValidationResult {
	var sizeRules, lineRules []types.MetricRule
	for _, mr := range metricRules {
		switch mr.Metric {
		case types.MetricSizeBytes:
			sizeRules = append(sizeRules, mr)
		case types.MetricLineCount:
			lineRules = append(lineRules, mr)
		default:
			debug.LogValidate("dropping metric rule %s: unknown metric %q\n", mr.ID, mr.Metric)
		}
	}

	compiled := make([]compiledRule, 0, len(regexRules))
	for _, r := range regexRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			debug.LogValidate("%v\n", scanerrors.NewRuleError(r.ID, r.Pattern, err))
			continue
		}
		compiled = append(compiled, compiledRule{id: r.ID, re: re})
	}

	if len(compiled) == 0 && len(sizeRules) == 0 && len(lineRules) == 0 {
		return []types.ValidationResult{}
	}

	slots := make([][]types.ValidationResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency.Limit())
	for i, path := range paths {
		g.Go(func() error {
			slots[i] = validateFile(path, compiled, sizeRules, lineRules)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]types.ValidationResult, 0)
	for _, s := range slots {
		results = append(results, s...)
	}
	return results
}

func validateFile(path string, regexRules []compiledRule, sizeRules, lineRules []types.MetricRule) []types.ValidationResult {
	var results []types.ValidationResult

	if len(sizeRules) > 0 {
		results = append(results, checkSize(path, sizeRules)...)
	}
	if len(lineRules) > 0 {
		results = append(results, checkLineCount(path, lineRules)...)
	}
	if len(regexRules) > 0 {
		results = append(results, scanLines(path, regexRules)...)
	}

	return results
}

// checkSize evaluates size rules from file metadata without opening the file.
func checkSize(path string, rules []types.MetricRule) []types.ValidationResult {
	info, err := os.Stat(path)
	if err != nil {
		debug.LogValidate("%v\n", scanerrors.NewFileError("stat", path, err))
		return nil
	}

	var results []types.ValidationResult
	for _, r := range rules {
		if info.Size() > r.Threshold {
			results = append(results, types.ValidationResult{
				RuleID:   r.ID,
				FilePath: path,
				Message:  fmt.Sprintf("file size %d bytes exceeds limit %d bytes", info.Size(), r.Threshold),
			})
		}
	}
	return results
}

func checkLineCount(path string, rules []types.MetricRule) []types.ValidationResult {
	count, err := countLines(path)
	if err != nil {
		debug.LogValidate("%v\n", scanerrors.NewFileError("count", path, err))
		return nil
	}

	var results []types.ValidationResult
	for _, r := range rules {
		if int64(count) > r.Threshold {
			results = append(results, types.ValidationResult{
				RuleID:   r.ID,
				FilePath: path,
				Message:  fmt.Sprintf("line count %d exceeds limit %d", count, r.Threshold),
			})
		}
	}
	return results
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	count := 0
	for {
		chunk, rerr := r.ReadBytes('\n')
		if len(chunk) > 0 {
			count++
		}
		if rerr != nil {
			if rerr != io.EOF {
				return 0, rerr
			}
			return count, nil
		}
	}
}

// scanLines evaluates regex rules line by line, recording the 1-based
// line number and trimmed line for every rule that matches.
func scanLines(path string, rules []compiledRule) []types.ValidationResult {
	f, err := os.Open(path)
	if err != nil {
		debug.LogValidate("%v\n", scanerrors.NewFileError("open", path, err))
		return nil
	}
	defer f.Close()

	var results []types.ValidationResult

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		chunk, rerr := r.ReadBytes('\n')
		if len(chunk) > 0 {
			lineNo++
			line := string(bytes.TrimRight(chunk, "\r\n"))
			for _, rule := range rules {
				if rule.re.MatchString(line) {
					results = append(results, types.ValidationResult{
						RuleID:   rule.id,
						FilePath: path,
						Message:  fmt.Sprintf("pattern %q matched", rule.re.String()),
						Line:     lineNo,
						Snippet:  strings.TrimSpace(line),
					})
				}
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				debug.LogValidate("%v\n", scanerrors.NewFileError("read", path, rerr))
			}
			break
		}
	}

	return results
}
