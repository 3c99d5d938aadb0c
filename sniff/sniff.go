// Binary file detection for early rejection of non-text files.
// Prevents the matcher and extractor from chewing on binary data.
package sniff

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SampleSize is the number of leading bytes inspected when classifying
// file content.
const SampleSize = 1024

// Detector classifies files as binary or text using extension, magic
// number, and content heuristics.
type Detector struct {
	binaryExtensions map[string]bool
}

// NewDetector creates a detector with the built-in extension database
func NewDetector() *Detector {
	extensions := map[string]bool{
		// Font files
		".woff":  true,
		".woff2": true,
		".ttf":   true,
		".otf":   true,
		".eot":   true,

		// Image files
		".png":  true,
		".jpg":  true,
		".jpeg": true,
		".gif":  true,
		".bmp":  true,
		".ico":  true,
		".webp": true,
		".svg":  false, // SVG is text-based XML
		".tiff": true,
		".tif":  true,

		// Archive files
		".zip": true,
		".tar": true,
		".gz":  true,
		".bz2": true,
		".xz":  true,
		".7z":  true,
		".rar": true,
		".jar": true,
		".war": true,

		// Binary executables
		".exe":   true,
		".dll":   true,
		".so":    true,
		".dylib": true,
		".a":     true,
		".o":     true,
		".obj":   true,
		".bin":   true,

		// Media files
		".mp3":  true,
		".mp4":  true,
		".avi":  true,
		".mov":  true,
		".wav":  true,
		".flac": true,
		".ogg":  true,

		// Document files (binary formats)
		".pdf":  true,
		".doc":  true,
		".docx": true,
		".xls":  true,
		".xlsx": true,
		".ppt":  true,
		".pptx": true,

		// Database files
		".db":      true,
		".sqlite":  true,
		".sqlite3": true,

		// Compiled/minified assets
		".min.js":  false, // JavaScript, but minified (allow)
		".min.css": false, // CSS, but minified (allow)
		".map":     false, // Source maps are JSON (allow)

		// Bytecode
		".pyc":    true,
		".pyo":    true,
		".class":  true,
		".pickle": true,
		".pkl":    true,
	}

	return &Detector{
		binaryExtensions: extensions,
	}
}

// IsBinaryByExtension checks if a file is binary based on its extension
func (d *Detector) IsBinaryByExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}

	// Handle compound extensions like .min.js
	if strings.HasSuffix(path, ".min.js") || strings.HasSuffix(path, ".min.css") {
		return false // Minified text files are still text
	}

	isBinary, exists := d.binaryExtensions[ext]
	return exists && isBinary
}

// IsBinaryContent checks if a content sample is binary using magic number
// detection and heuristics. Only the first SampleSize bytes are inspected.
func (d *Detector) IsBinaryContent(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	// Common binary file signatures (magic numbers)
	if bytes.HasPrefix(sample, []byte{0x1F, 0x8B}) {
		return true // gzip
	}
	if bytes.HasPrefix(sample, []byte{0x50, 0x4B, 0x03, 0x04}) ||
		bytes.HasPrefix(sample, []byte{0x50, 0x4B, 0x05, 0x06}) {
		return true // ZIP
	}
	if bytes.HasPrefix(sample, []byte{0x89, 0x50, 0x4E, 0x47}) {
		return true // PNG
	}
	if bytes.HasPrefix(sample, []byte{0xFF, 0xD8, 0xFF}) {
		return true // JPEG
	}
	if bytes.HasPrefix(sample, []byte{0x47, 0x49, 0x46, 0x38}) {
		return true // GIF
	}
	if bytes.HasPrefix(sample, []byte{0x25, 0x50, 0x44, 0x46}) {
		return true // PDF
	}
	if bytes.HasPrefix(sample, []byte{0x7F, 0x45, 0x4C, 0x46}) {
		return true // ELF (Linux executable)
	}
	if bytes.HasPrefix(sample, []byte{0x4D, 0x5A}) {
		return true // DOS/Windows executable
	}
	if bytes.HasPrefix(sample, []byte{0xCA, 0xFE, 0xBA, 0xBE}) {
		return true // Mach-O (macOS executable)
	}
	if bytes.HasPrefix(sample, []byte{0x77, 0x4F, 0x46, 0x46}) ||
		bytes.HasPrefix(sample, []byte{0x77, 0x4F, 0x46, 0x32}) {
		return true // WOFF/WOFF2 fonts
	}

	// Heuristic: null bytes and a high proportion of non-printable
	// characters indicate binary content
	nullBytes := 0
	nonPrintable := 0

	for _, b := range sample {
		if b == 0 {
			nullBytes++
		}
		// Count bytes that are not printable ASCII and not common whitespace.
		// High bytes (>= 0x80) may be UTF-8 text, so they don't count.
		if b < 0x20 && b != 0x09 && b != 0x0A && b != 0x0D {
			nonPrintable++
		}
	}

	// If more than 1% null bytes, very likely binary
	if nullBytes > len(sample)/100 {
		return true
	}

	// If more than 30% non-printable characters (excluding UTF-8), likely binary
	if nonPrintable > len(sample)*30/100 {
		return true
	}

	return false
}

// IsBinary combines extension and content checks for robust detection
func (d *Detector) IsBinary(path string, sample []byte) bool {
	// Fast path: check extension first (no I/O needed)
	if d.IsBinaryByExtension(path) {
		return true
	}

	if len(sample) > 0 {
		return d.IsBinaryContent(sample)
	}

	return false
}

// SniffFile reads the first SampleSize bytes of a file and classifies it.
func (d *Detector) SniffFile(path string) (bool, error) {
	if d.IsBinaryByExtension(path) {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, SampleSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}

	return d.IsBinaryContent(buf[:n]), nil
}
