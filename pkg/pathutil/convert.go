// Package pathutil provides utilities for converting between absolute and relative paths.
//
// The engine uses absolute paths internally for consistency and to avoid
// ambiguity; output records handed to the policy layer should use relative
// paths for readability and portability. This package is that conversion
// boundary.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/wardenhq/warden-core/types"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute path
	// is clearer in that case
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeDescriptors converts descriptor paths from absolute to relative.
// Creates a new slice without modifying the original records.
func ToRelativeDescriptors(descs []types.FileDescriptor, rootDir string) []types.FileDescriptor {
	if len(descs) == 0 {
		return descs
	}

	converted := make([]types.FileDescriptor, len(descs))
	copy(converted, descs)

	for i := range converted {
		converted[i].Path = ToRelative(converted[i].Path, rootDir)
	}

	return converted
}
