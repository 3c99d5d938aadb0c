package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for recoverable scan failures
type ErrorType string

const (
	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Rule errors
	ErrorTypeRule ErrorType = "rule"
)

// FileError represents a per-file failure during a scan. These never
// escape a per-file task; they are logged and the file degrades to a
// zero-valued or empty result.
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error with context
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if stderrors.Is(err, fs.ErrPermission) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithType overrides the classified error type
func (e *FileError) WithType(t ErrorType) *FileError {
	e.Type = t
	return e
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// RuleError represents an invalid rule definition. Invalid rules are
// dropped from the active set, never fatal to a batch.
type RuleError struct {
	Type       ErrorType
	RuleID     string
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewRuleError creates a new rule error
func NewRuleError(ruleID, pattern string, err error) *RuleError {
	return &RuleError{
		Type:       ErrorTypeRule,
		RuleID:     ruleID,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s invalid (pattern %q): %v", e.RuleID, e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error
func (e *RuleError) Unwrap() error {
	return e.Underlying
}
