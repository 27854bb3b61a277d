package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"
)

// ErrProtected is returned for paths the guard refuses to touch.
var ErrProtected = errors.New("path is protected")

// Guard decides whether a path may be deleted. A path is refused when it is,
// or contains, one of the never-delete paths, or when it matches one of the
// user's whitelist patterns.
type Guard struct {
	protected []string
	whitelist []string
}

// NewGuard builds a guard. Empty entries are ignored.
func NewGuard(protected, whitelist []string) *Guard {
	g := &Guard{}
	for _, p := range protected {
		if strings.TrimSpace(p) == "" {
			continue
		}
		g.protected = append(g.protected, normalize(p))
	}
	for _, w := range whitelist {
		if strings.TrimSpace(w) == "" {
			continue
		}
		if runtime.GOOS == "windows" {
			w = strings.ToLower(w)
		}
		g.whitelist = append(g.whitelist, filepath.ToSlash(w))
	}
	return g
}

// Check returns nil if path may be deleted, or an error wrapping ErrProtected.
// A nil Guard allows everything.
func (g *Guard) Check(path string) error {
	if g == nil {
		return nil
	}
	p := normalize(path)

	for _, prot := range g.protected {
		if contains(p, prot) {
			return fmt.Errorf("%w: %s guards %s", ErrProtected, path, prot)
		}
	}

	slashed := filepath.ToSlash(p)
	for _, pattern := range g.whitelist {
		if wildcard.Match(pattern, slashed) {
			return fmt.Errorf("%w: %s is whitelisted by %q", ErrProtected, path, pattern)
		}
	}
	return nil
}

// contains reports whether target equals dir or lies beneath it.
func contains(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// normalize cleans a path; Windows paths compare case-insensitively.
func normalize(p string) string {
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

// Within reports whether path is dir or lies beneath it.
func Within(dir, path string) bool {
	if dir == "" {
		return false
	}
	return contains(normalize(dir), normalize(path))
}
