// Package discovery walks a source tree and emits the candidate files a
// scan should process: regular, text, within the size limit, and not
// excluded by ignore rules.
package discovery

import (
	"os"
	"path/filepath"

	"github.com/wardenhq/warden-core/ignore"
	"github.com/wardenhq/warden-core/internal/debug"
	"github.com/wardenhq/warden-core/sniff"
	"github.com/wardenhq/warden-core/types"
)

// DefaultMaxSizeMB is the size limit applied when Options.MaxSizeMB is zero.
const DefaultMaxSizeMB = 100

// Options controls a discovery walk.
type Options struct {
	// UseGitignore loads root/.gitignore into the exclusion set.
	// root/.wardenignore is always loaded, additively.
	UseGitignore bool

	// MaxSizeMB is the per-file size limit in megabytes; zero means
	// DefaultMaxSizeMB. Oversized files are skipped without being opened.
	MaxSizeMB int64
}

// Walker performs ignore-aware discovery under a single root.
type Walker struct {
	root     string
	maxBytes int64
	matcher  *ignore.Matcher
	detector *sniff.Detector
}

// NewWalker creates a walker for root and loads its ignore files.
func NewWalker(root string, opts Options) (*Walker, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	maxMB := opts.MaxSizeMB
	if maxMB <= 0 {
		maxMB = DefaultMaxSizeMB
	}

	matcher := ignore.NewMatcher()
	if opts.UseGitignore {
		if err := matcher.LoadGitignore(root); err != nil {
			debug.LogDiscovery("failed to load .gitignore: %v\n", err)
		}
	}
	if err := matcher.LoadWardenignore(root); err != nil {
		debug.LogDiscovery("failed to load .wardenignore: %v\n", err)
	}

	return &Walker{
		root:     root,
		maxBytes: maxMB * 1024 * 1024,
		matcher:  matcher,
		detector: sniff.NewDetector(),
	}, nil
}

// Discover walks root and returns descriptors for every candidate file.
// Per-entry failures are skipped; the error is non-nil only when the root
// itself cannot be walked.
func Discover(root string, opts Options) ([]types.FileDescriptor, error) {
	w, err := NewWalker(root, opts)
	if err != nil {
		return nil, err
	}
	return w.Walk()
}

// Walk runs the discovery traversal.
func (w *Walker) Walk() ([]types.FileDescriptor, error) {
	found := make([]types.FileDescriptor, 0)

	// Track visited directories to prevent infinite loops from symlink cycles
	visitedDirs := make(map[string]bool)

	debug.LogDiscovery("starting walk of %s\n", w.root)

	err := filepath.Walk(w.root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			debug.LogDiscovery("walk error for %s: %v\n", path, walkErr)
			return nil // Continue scanning despite errors
		}

		// Check for symlink cycles - prevent infinite loops
		if info.IsDir() {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				debug.LogDiscovery("skipping unresolvable symlink: %s (%v)\n", path, err)
				return nil
			}

			if visitedDirs[realPath] {
				debug.LogDiscovery("cycle detected, skipping: %s -> %s\n", path, realPath)
				return filepath.SkipDir
			}
			visitedDirs[realPath] = true
		}

		// Early directory pruning - skip entire excluded directories
		if info.IsDir() && path != w.root {
			if w.matcher.Ignored(w.relative(path), true) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		if desc, ok := w.inspect(path, info); ok {
			found = append(found, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	debug.LogDiscovery("walk of %s found %d files\n", w.root, len(found))
	return found, nil
}

// inspect applies the per-file checks in cheapest-first order: ignore
// rules, size limit from metadata, then the content sniff.
func (w *Walker) inspect(path string, info os.FileInfo) (types.FileDescriptor, bool) {
	if w.matcher.Ignored(w.relative(path), false) {
		return types.FileDescriptor{}, false
	}

	if info.Size() > w.maxBytes {
		debug.LogDiscovery("skipping oversized file %s (%d bytes)\n", path, info.Size())
		return types.FileDescriptor{}, false
	}

	binary, err := w.detector.SniffFile(path)
	if err != nil {
		debug.LogDiscovery("skipping unreadable file %s: %v\n", path, err)
		return types.FileDescriptor{}, false
	}
	if binary {
		return types.FileDescriptor{}, false
	}

	return types.FileDescriptor{
		Path:     path,
		Size:     info.Size(),
		Language: types.LanguageFromPath(path),
	}, true
}

// relative normalizes a path for pattern matching: relative to the walk
// root, forward slashes.
func (w *Walker) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path // Fallback to the path as given
	}
	return filepath.ToSlash(rel)
}
