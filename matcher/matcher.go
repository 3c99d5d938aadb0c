// Package matcher runs regex scanning rules over a batch of files and
// reports every line-level hit.
package matcher

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

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

// compileRules compiles the rule set, dropping rules whose patterns fail
// to compile.
func compileRules(rules []types.Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			debug.LogMatch("%v\n", scanerrors.NewRuleError(r.ID, r.Pattern, err))
			continue
		}
		compiled = append(compiled, compiledRule{id: r.ID, re: re})
	}
	return compiled
}

// Match scans every path against every rule in parallel. If no rule
// survives compilation the result is empty and no file is opened. Hits
// within a file are ordered by line; unreadable files yield no hits.
func Match(paths []string, rules []types.Rule) []types.MatchHit {
	compiled := compileRules(rules)
	if len(compiled) == 0 {
		return []types.MatchHit{}
	}

	slots := make([][]types.MatchHit, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency.Limit())
	for i, path := range paths {
		g.Go(func() error {
			slots[i] = matchFile(path, compiled)
			return nil
		})
	}
	_ = g.Wait()

	hits := make([]types.MatchHit, 0)
	for _, s := range slots {
		hits = append(hits, s...)
	}
	return hits
}

// matchFile scans one file line by line. Lines that are not valid UTF-8
// are skipped; a mid-file read failure keeps the hits found so far.
func matchFile(path string, rules []compiledRule) []types.MatchHit {
	f, err := os.Open(path)
	if err != nil {
		debug.LogMatch("%v\n", scanerrors.NewFileError("open", path, err))
		return nil
	}
	defer f.Close()

	var hits []types.MatchHit

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		chunk, rerr := r.ReadBytes('\n')
		if len(chunk) > 0 {
			lineNo++
			line := string(bytes.TrimRight(chunk, "\r\n"))
			if utf8.ValidString(line) {
				hits = append(hits, matchLine(path, lineNo, line, rules)...)
			}
		}
		if rerr != nil {
			if rerr != io.EOF {
				debug.LogMatch("%v\n", scanerrors.NewFileError("read", path, rerr))
			}
			break
		}
	}

	return hits
}

// matchLine records the leftmost match of each rule on one line. Column
// is a 1-based byte offset into the raw line.
func matchLine(path string, lineNo int, line string, rules []compiledRule) []types.MatchHit {
	var hits []types.MatchHit
	for _, rule := range rules {
		loc := rule.re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		hits = append(hits, types.MatchHit{
			FilePath:   path,
			LineNumber: lineNo,
			Column:     loc[0] + 1,
			RuleID:     rule.id,
			Snippet:    strings.TrimSpace(line),
		})
	}
	return hits
}
