// Package profiler computes per-file statistics for a batch of paths:
// size, line count, binary classification, and content hashes.
package profiler

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wardenhq/warden-core/internal/concurrency"
	"github.com/wardenhq/warden-core/internal/debug"
	scanerrors "github.com/wardenhq/warden-core/internal/errors"
	"github.com/wardenhq/warden-core/sniff"
	"github.com/wardenhq/warden-core/types"
)

// binaryHashLimit is the size above which binary files are not hashed.
const binaryHashLimit = 50 * 1024 * 1024

var newline = []byte{'\n'}

var detector = sniff.NewDetector()

// Profile computes stats for every path in parallel. Each path produces
// exactly one record; unreadable paths degrade to a zero-valued record
// carrying only the path.
func Profile(paths []string) []types.FileStats {
	stats := make([]types.FileStats, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency.Limit())
	for i, path := range paths {
		g.Go(func() error {
			stats[i] = profileFile(path)
			return nil
		})
	}
	_ = g.Wait()

	return stats
}

func profileFile(path string) types.FileStats {
	info, err := os.Stat(path)
	if err != nil {
		debug.LogProfile("%v\n", scanerrors.NewFileError("stat", path, err))
		return types.FileStats{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		debug.LogProfile("%v\n", scanerrors.NewFileError("open", path, err))
		return types.FileStats{Path: path}
	}
	defer f.Close()

	sample := make([]byte, sniff.SampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		debug.LogProfile("%v\n", scanerrors.NewFileError("read", path, err))
		return types.FileStats{Path: path}
	}
	sample = sample[:n]

	stats := types.FileStats{
		Path:     path,
		Size:     info.Size(),
		Language: types.LanguageFromPath(path),
	}

	stats.IsBinary = detector.IsBinary(path, sample)

	if stats.IsBinary {
		return profileBinary(f, sample, stats)
	}
	return profileText(f, stats)
}

// profileBinary hashes raw file bytes. Files at or above the hash limit
// keep an empty hash; they are still reported with size and binary flag.
func profileBinary(f *os.File, sample []byte, stats types.FileStats) types.FileStats {
	if stats.Size >= binaryHashLimit {
		return stats
	}

	sha := sha256.New()
	fast := xxhash.New()
	w := io.MultiWriter(sha, fast)

	if _, err := w.Write(sample); err != nil {
		return types.FileStats{Path: stats.Path}
	}
	if _, err := io.Copy(w, f); err != nil {
		debug.LogProfile("%v\n", scanerrors.NewFileError("read", stats.Path, err))
		return types.FileStats{Path: stats.Path}
	}

	stats.Hash = hex.EncodeToString(sha.Sum(nil))
	stats.FastHash = fast.Sum64()
	return stats
}

// profileText counts lines and hashes canonicalized content in one pass:
// each line's bytes followed by a single newline, so CRLF and LF variants
// of the same text produce the same digest.
func profileText(f *os.File, stats types.FileStats) types.FileStats {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		debug.LogProfile("%v\n", scanerrors.NewFileError("seek", stats.Path, err))
		return types.FileStats{Path: stats.Path}
	}

	sha := sha256.New()
	fast := xxhash.New()

	r := bufio.NewReader(f)
	lines := 0
	for {
		chunk, rerr := r.ReadBytes('\n')
		if len(chunk) > 0 {
			lines++
			body := bytes.TrimRight(chunk, "\r\n")
			sha.Write(body)
			sha.Write(newline)
			fast.Write(body)
			fast.Write(newline)
		}
		if rerr != nil {
			if rerr != io.EOF {
				debug.LogProfile("%v\n", scanerrors.NewFileError("read", stats.Path, rerr))
				return types.FileStats{Path: stats.Path}
			}
			break
		}
	}

	stats.LineCount = lines
	stats.Hash = hex.EncodeToString(sha.Sum(nil))
	stats.FastHash = fast.Sum64()
	return stats
}
