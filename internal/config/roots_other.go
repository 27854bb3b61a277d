//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

// localAppData mirrors the Windows layout under the home directory so the
// same rule set resolves to harmless, usually absent, paths elsewhere.
func localAppData(home string) string {
	return filepath.Join(home, "AppData", "Local")
}

// systemRoot is "Windows" at the root of the home directory's volume.
func systemRoot(home string) string {
	return filepath.Join(filepath.VolumeName(home)+string(filepath.Separator), "Windows")
}

func platformProtectedPaths() []string {
	return []string{
		"/",
		"/bin",
		"/boot",
		"/etc",
		"/home",
		"/lib",
		"/opt",
		"/sbin",
		"/usr",
		"/var",
	}
}

// IsElevated reports whether the process runs as root.
func IsElevated() bool {
	return os.Geteuid() == 0
}
