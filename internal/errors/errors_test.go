package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileError(t *testing.T) {
	underlying := fs.ErrNotExist
	err := NewFileError("open", "/tmp/missing.go", underlying)

	assert.Equal(t, ErrorTypeFileNotFound, err.Type)
	assert.Contains(t, err.Error(), "open")
	assert.Contains(t, err.Error(), "/tmp/missing.go")
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
}

func TestFileErrorClassifiesPermission(t *testing.T) {
	err := NewFileError("read", "/etc/shadow", fs.ErrPermission)
	assert.Equal(t, ErrorTypePermission, err.Type)
}

func TestFileErrorWithType(t *testing.T) {
	err := NewFileError("stat", "/big.bin", stderrors.New("too large")).WithType(ErrorTypeFileTooLarge)
	assert.Equal(t, ErrorTypeFileTooLarge, err.Type)
}

func TestRuleError(t *testing.T) {
	underlying := stderrors.New("missing closing )")
	err := NewRuleError("no-todo", "(TODO", underlying)

	assert.Equal(t, ErrorTypeRule, err.Type)
	assert.Contains(t, err.Error(), "no-todo")
	assert.Contains(t, err.Error(), "(TODO")
	assert.True(t, stderrors.Is(err, underlying))
}
