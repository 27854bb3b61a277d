//go:build !windows

package scan

// Symlinks are filtered by mode bits; there are no other reparse points.
func isReparsePoint(string) bool { return false }

func longPath(path string) string { return path }
