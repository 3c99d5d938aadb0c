// Package ignore implements gitignore-style path matching for scan
// exclusions. A Matcher aggregates patterns from .gitignore and
// .wardenignore files; the sources are additive and evaluated in load
// order, with the usual last-match-wins negation semantics.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// patternKind classifies a pattern for fast matching
type patternKind int

const (
	kindExact patternKind = iota
	kindPrefix
	kindSuffix
	kindGlob
)

// Pattern is one parsed ignore pattern line
type Pattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool

	// Performance optimization fields
	kind   patternKind
	prefix string // Fast prefix matching for simple patterns
	suffix string // Fast suffix matching for simple patterns
}

// Matcher holds an ordered set of ignore patterns
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates an empty matcher
func NewMatcher() *Matcher {
	return &Matcher{
		patterns: make([]Pattern, 0),
	}
}

// LoadGitignore loads patterns from root/.gitignore. A missing file is
// not an error.
func (m *Matcher) LoadGitignore(root string) error {
	return m.loadFile(filepath.Join(root, ".gitignore"))
}

// LoadWardenignore loads patterns from root/.wardenignore. A missing
// file is not an error.
func (m *Matcher) LoadWardenignore(root string) error {
	return m.loadFile(filepath.Join(root, ".wardenignore"))
}

func (m *Matcher) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		// Ignore files are optional
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.AddPattern(line)
	}

	return scanner.Err()
}

// AddPattern adds a single pattern line to the matcher
func (m *Matcher) AddPattern(line string) {
	m.patterns = append(m.patterns, parsePattern(line))
}

// parsePattern parses a single ignore pattern line
func parsePattern(line string) Pattern {
	pattern := Pattern{}

	// Handle negation (!)
	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}

	// Handle directory-only patterns (ending with /)
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}

	// Handle absolute patterns (starting with /)
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}

	pattern.Pattern = line
	pattern.kind, pattern.prefix, pattern.suffix = analyzePattern(line)

	return pattern
}

// analyzePattern picks the cheapest matching strategy for a pattern
func analyzePattern(pattern string) (patternKind, string, string) {
	// Fast path: exact match (no wildcards)
	if !strings.ContainsAny(pattern, "*?[") {
		return kindExact, "", ""
	}

	// Simple asterisk patterns get prefix/suffix fast paths
	if strings.Contains(pattern, "*") && !strings.ContainsAny(pattern, "?[") {
		// "*.log" -> ".log" suffix
		if strings.HasPrefix(pattern, "*") && !strings.Contains(pattern[1:], "*") {
			return kindSuffix, "", pattern[1:]
		}
		// "test*" -> "test" prefix
		if strings.HasSuffix(pattern, "*") && !strings.Contains(pattern[:len(pattern)-1], "*") {
			return kindPrefix, pattern[:len(pattern)-1], ""
		}
	}

	return kindGlob, "", ""
}

// Ignored reports whether a path should be excluded from the scan.
// The path must be slash-separated and relative to the scan root.
func (m *Matcher) Ignored(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false

	for _, pattern := range m.patterns {
		if matchesPattern(pattern, path, isDir) {
			ignored = !pattern.Negate
		}
	}

	return ignored
}

// matchesPattern checks if a pattern matches a given path
func matchesPattern(pattern Pattern, path string, isDir bool) bool {
	// Directory-only patterns match the directory itself and everything
	// inside it
	if pattern.Directory {
		if isDir {
			return matchDirectoryPattern(pattern, path)
		}
		return matchInsideDirectoryPattern(pattern, path)
	}

	if pattern.Absolute {
		// Absolute pattern - match from root only
		return fastMatch(pattern, path)
	}

	// Relative pattern - match the full path or any suffix of it
	if fastMatch(pattern, path) {
		return true
	}

	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if fastMatch(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}

	// A bare name also excludes everything inside a directory of that
	// name, so "build" behaves like "build/"
	if pattern.kind == kindExact && !strings.Contains(pattern.Pattern, "/") {
		for _, part := range parts[:len(parts)-1] {
			if part == pattern.Pattern {
				return true
			}
		}
	}

	return false
}

// fastMatch performs optimized pattern matching based on pattern kind
func fastMatch(pattern Pattern, path string) bool {
	switch pattern.kind {
	case kindExact:
		return pattern.Pattern == path

	case kindPrefix:
		return strings.HasPrefix(path, pattern.prefix)

	case kindSuffix:
		return strings.HasSuffix(path, pattern.suffix)

	case kindGlob:
		matched, err := doublestar.Match(pattern.Pattern, path)
		return err == nil && matched

	default:
		return pattern.Pattern == path
	}
}

// matchDirectoryPattern checks a directory path against a directory pattern
func matchDirectoryPattern(pattern Pattern, path string) bool {
	if fastMatch(pattern, path) {
		return true
	}

	if pattern.Absolute {
		return strings.HasPrefix(path, pattern.Pattern+"/")
	}

	// Relative directory patterns match at any depth
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if fastMatch(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	for _, part := range parts {
		if fastMatch(pattern, part) {
			return true
		}
	}

	return false
}

// matchInsideDirectoryPattern checks if a file path is inside a directory
// matching a directory pattern
func matchInsideDirectoryPattern(pattern Pattern, path string) bool {
	// Fast path: direct prefix match
	if strings.HasPrefix(path, pattern.Pattern+"/") {
		return true
	}

	if pattern.Absolute {
		return false
	}

	// Check every ancestor directory component against the pattern
	parts := strings.Split(path, "/")
	for _, part := range parts[:len(parts)-1] {
		if fastMatch(pattern, part) {
			return true
		}
	}

	return fastMatch(pattern, path)
}
