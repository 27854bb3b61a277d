package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const maxWarnings = 500

// Walker sums file sizes under a root. It is safe for concurrent use; the
// warning list and scanned counter are shared across calls.
type Walker struct {
	mu           sync.Mutex
	warnings     []string
	scannedCount atomic.Int64
}

// NewWalker returns a ready Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// ComputeSize is a convenience for a one-off walk with a throwaway Walker.
func ComputeSize(root string, cutoff time.Time) int64 {
	return NewWalker().Size(root, cutoff)
}

// Warnings returns any warnings accumulated during walking.
func (w *Walker) Warnings() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.warnings...)
}

// ScannedCount returns the number of entries visited so far.
func (w *Walker) ScannedCount() int64 {
	return w.scannedCount.Load()
}

func (w *Walker) addWarning(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.warnings) < maxWarnings {
		w.warnings = append(w.warnings, msg)
	}
}

// Size returns the total size in bytes of regular files under root whose
// modification time is strictly before cutoff. A zero cutoff counts every
// file. A missing root is 0; unreadable entries are skipped.
//
// A symlinked root is followed once. Symlinks and junctions below the root
// are neither followed nor counted.
func (w *Walker) Size(root string, cutoff time.Time) int64 {
	root = filepath.Clean(root)

	info, err := os.Stat(longPath(root))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.addWarning("cannot stat " + root + ": " + err.Error())
		}
		return 0
	}
	w.scannedCount.Add(1)

	if !info.IsDir() {
		if info.Mode().IsRegular() && olderThan(info, cutoff) {
			return info.Size()
		}
		return 0
	}
	return w.sizeDir(root, cutoff)
}

func (w *Walker) sizeDir(dir string, cutoff time.Time) int64 {
	entries, err := os.ReadDir(longPath(dir))
	if err != nil {
		w.addWarning("cannot read " + dir + ": " + err.Error())
		return 0
	}

	var total int64
	for _, e := range entries {
		childPath := filepath.Join(dir, e.Name())
		w.scannedCount.Add(1)

		if e.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if e.IsDir() {
			// NEVER follow junction points / reparse points.
			if isReparsePoint(childPath) {
				w.addWarning("skipping junction/reparse: " + childPath)
				continue
			}
			total += w.sizeDir(childPath, cutoff)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// Removed or denied since ReadDir; skip, don't fail.
			w.addWarning("cannot stat " + childPath + ": " + err.Error())
			continue
		}
		if olderThan(info, cutoff) {
			total += info.Size()
		}
	}
	return total
}

func olderThan(info fs.FileInfo, cutoff time.Time) bool {
	return cutoff.IsZero() || info.ModTime().Before(cutoff)
}
