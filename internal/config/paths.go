package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathRoots holds the resolved locations that rule paths are written against.
type PathRoots struct {
	// Local is the per-user local application data root ({LOCAL}).
	Local string

	// System is the operating system root directory ({SYSTEM_ROOT}).
	System string

	// Home is the user's home directory, used for "~" expansion.
	Home string
}

// DiscoverRoots resolves the roots for the current user and platform.
func DiscoverRoots() (PathRoots, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return PathRoots{}, fmt.Errorf("resolve home directory: %w", err)
	}
	return PathRoots{
		Local:  localAppData(home),
		System: systemRoot(home),
		Home:   home,
	}, nil
}

// WithOverrides returns a copy with non-empty overrides applied.
func (r PathRoots) WithOverrides(o RootOverrides) PathRoots {
	if o.Local != "" {
		r.Local = filepath.Clean(o.Local)
	}
	if o.System != "" {
		r.System = filepath.Clean(o.System)
	}
	return r
}

// AuditLogPath returns the default per-user location of the sweep log.
func (r PathRoots) AuditLogPath() string {
	return filepath.Join(r.Local, "Sweeper", "logs", "sweeps.log")
}

// NeverDeletePaths returns paths that must NEVER be deleted under any
// circumstances, regardless of what the rule set says. Deleting any of
// these, or a directory containing one of them, is refused.
func NeverDeletePaths(r PathRoots) []string {
	paths := []string{
		r.System,
		filepath.Join(r.System, "System32"),
		filepath.Join(r.System, "SysWOW64"),
		filepath.Join(r.System, "WinSxS"),
		filepath.Join(r.System, "assembly"),
		filepath.Join(r.System, "System32", "config"),
		filepath.Join(r.System, "Installer"),
		filepath.Join(r.System, "servicing"),
		r.Local,
		r.Home,
	}
	return append(paths, platformProtectedPaths()...)
}
