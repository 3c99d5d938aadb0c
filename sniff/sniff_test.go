package sniff

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinaryByExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"png image", "logo.png", true},
		{"shared object", "libfoo.so", true},
		{"zip archive", "bundle.zip", true},
		{"python bytecode", "mod.pyc", true},
		{"svg is text", "icon.svg", false},
		{"minified js is text", "app.min.js", false},
		{"minified css is text", "style.min.css", false},
		{"source map is text", "app.js.map", false},
		{"go source", "main.go", false},
		{"no extension", "README", false},
		{"uppercase extension", "PHOTO.JPG", true},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.IsBinaryByExtension(tt.path))
		})
	}
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{"empty", nil, false},
		{"plain ascii", []byte("package main\n\nfunc main() {}\n"), false},
		{"utf8 text", []byte("héllo wörld\nsecond line\n"), false},
		{"png magic", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, true},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08, 0x00}, true},
		{"elf magic", []byte{0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01}, true},
		{"pdf magic", []byte("%PDF-1.7 rest of header"), true},
		{"null bytes", append([]byte("some text"), bytes.Repeat([]byte{0}, 100)...), true},
		{"tabs and newlines stay text", []byte("a\tb\r\nc\n"), false},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.IsBinaryContent(tt.content))
		})
	}
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello\nworld\n"), 0644))

	binaryPath := filepath.Join(dir, "blob.dat")
	require.NoError(t, os.WriteFile(binaryPath, append([]byte{0x89, 0x50, 0x4E, 0x47}, make([]byte, 64)...), 0644))

	emptyPath := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0644))

	d := NewDetector()

	binary, err := d.SniffFile(textPath)
	require.NoError(t, err)
	assert.False(t, binary)

	binary, err = d.SniffFile(binaryPath)
	require.NoError(t, err)
	assert.True(t, binary)

	binary, err = d.SniffFile(emptyPath)
	require.NoError(t, err)
	assert.False(t, binary)

	// Extension short-circuits without opening the file
	binary, err = d.SniffFile(filepath.Join(dir, "missing.png"))
	require.NoError(t, err)
	assert.True(t, binary)

	_, err = d.SniffFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestSniffOnlyInspectsSample(t *testing.T) {
	// A file whose first SampleSize bytes are text must classify as text
	// even if binary garbage follows
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.dat")

	content := append(bytes.Repeat([]byte("text line\n"), SampleSize/10+1), bytes.Repeat([]byte{0}, 512)...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	d := NewDetector()
	binary, err := d.SniffFile(path)
	require.NoError(t, err)
	assert.False(t, binary)
}
