// Package types defines the value objects shared by the scanning engine:
// rule definitions, per-file records, and the language enumeration.
package types

import (
	"path/filepath"
	"strings"
)

// Language identifies the grammar family of a source file.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangCpp        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangRust       Language = "rust"
	LangPHP        Language = "php"
	LangZig        Language = "zig"
	LangUnknown    Language = "unknown"
)

// extensionLanguages maps lowercase file extensions to languages.
// The C/C++ family shares one grammar, so .c and .h classify as cpp.
var extensionLanguages = map[string]Language{
	".go":    LangGo,
	".py":    LangPython,
	".js":    LangJavaScript,
	".jsx":   LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".java":  LangJava,
	".c":     LangCpp,
	".h":     LangCpp,
	".cpp":   LangCpp,
	".cc":    LangCpp,
	".cxx":   LangCpp,
	".hpp":   LangCpp,
	".hh":    LangCpp,
	".cs":    LangCSharp,
	".rs":    LangRust,
	".php":   LangPHP,
	".phtml": LangPHP,
	".zig":   LangZig,
}

// LanguageFromPath derives the language from a file's extension,
// case-insensitively. Unrecognized extensions map to LangUnknown.
func LanguageFromPath(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return LangUnknown
}

// ParseLanguage converts a language tag to a Language. Tags are matched
// case-insensitively; anything outside the closed set maps to LangUnknown.
func ParseLanguage(tag string) Language {
	switch Language(strings.ToLower(tag)) {
	case LangGo, LangPython, LangJavaScript, LangTypeScript, LangJava,
		LangCpp, LangCSharp, LangRust, LangPHP, LangZig:
		return Language(strings.ToLower(tag))
	case "c":
		return LangCpp
	default:
		return LangUnknown
	}
}

// Rule is a regex scanning rule. Pattern uses RE2 syntax and is compiled
// per call; a rule whose pattern fails to compile is dropped from the
// active set rather than failing the batch.
type Rule struct {
	ID      string
	Pattern string
}

// MetricType names a numeric file metric a MetricRule can constrain.
type MetricType string

const (
	MetricSizeBytes MetricType = "size_bytes"
	MetricLineCount MetricType = "line_count"
)

// ParseMetricType converts a metric name to a MetricType.
func ParseMetricType(s string) (MetricType, bool) {
	switch MetricType(s) {
	case MetricSizeBytes:
		return MetricSizeBytes, true
	case MetricLineCount:
		return MetricLineCount, true
	}
	return "", false
}

// MetricRule is a numeric threshold rule; a file violates it when the
// observed metric value exceeds Threshold.
type MetricRule struct {
	ID        string
	Metric    MetricType
	Threshold int64
}

// FileDescriptor is one discovered candidate file.
type FileDescriptor struct {
	Path     string
	Size     int64
	Language Language
}

// FileStats is the profiling record for one file.
//
// For text files Hash is a SHA-256 over line-ending-canonicalized content
// (each line's bytes followed by a single newline) and LineCount comes
// from the same read pass. For binary files Hash is a raw whole-file
// digest, computed only below the profiler's size cutoff. FastHash is an
// xxhash64 over the same bytes as Hash, for cheap equality checks; it is
// zero whenever Hash is empty. Unreadable files produce a zero-valued
// record carrying only the path.
type FileStats struct {
	Path      string
	Size      int64
	LineCount int
	IsBinary  bool
	Hash      string
	FastHash  uint64
	Language  Language
}

// MatchHit is one regex rule match. LineNumber and Column are 1-based;
// Column is a byte offset into the raw line. Snippet is the matched line
// with surrounding whitespace trimmed.
type MatchHit struct {
	FilePath   string
	LineNumber int
	Column     int
	RuleID     string
	Snippet    string
}

// AstNodeInfo describes one extracted definition. CodeSnippet is the
// first line of the enclosing declaration, truncated to the extractor's
// snippet limit.
type AstNodeInfo struct {
	Name        string
	LineNumber  int
	CodeSnippet string
}

// AstMetadata is the structural extraction result for one source text.
// References are raw captured strings in traversal order, not
// deduplicated.
type AstMetadata struct {
	Functions  []AstNodeInfo
	Classes    []AstNodeInfo
	Imports    []AstNodeInfo
	References []string
}

// ValidationResult is one rule violation. Metric violations carry
// Line == 0 and an empty Snippet; regex violations carry the 1-based
// line number and the trimmed offending line.
type ValidationResult struct {
	RuleID   string
	FilePath string
	Message  string
	Line     int
	Snippet  string
}
