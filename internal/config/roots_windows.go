//go:build windows

package config

import (
	"os"
	"path/filepath"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// win32OperatingSystem receives the single WMI column we need.
type win32OperatingSystem struct {
	WindowsDirectory string
}

// localAppData returns the local app data directory. The known-folder API
// is authoritative; %LOCALAPPDATA% is only a fallback.
func localAppData(home string) string {
	if p, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppData, 0); err == nil && p != "" {
		return p
	}
	if p := os.Getenv("LOCALAPPDATA"); p != "" {
		return p
	}
	return filepath.Join(home, "AppData", "Local")
}

// systemRoot returns the Windows directory (e.g., C:\Windows).
// Falls back to %WINDIR% and then C:\Windows if WMI is unavailable.
func systemRoot(_ string) string {
	var dst []win32OperatingSystem
	err := wmi.Query("SELECT WindowsDirectory FROM Win32_OperatingSystem", &dst)
	if err == nil && len(dst) > 0 && dst[0].WindowsDirectory != "" {
		return dst[0].WindowsDirectory
	}
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive letter with backslash (e.g., C:\).
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func platformProtectedPaths() []string {
	sd := systemDrive()
	return []string{
		sd,
		filepath.Join(sd, "Boot"),
		filepath.Join(sd, "bootmgr"),
		filepath.Join(sd, "EFI"),
		filepath.Join(sd, "Users"),
		filepath.Join(sd, "Recovery"),
		envOr("PROGRAMFILES", `C:\Program Files`),
		envOr("PROGRAMFILES(X86)", `C:\Program Files (x86)`),
		envOr("PROGRAMDATA", `C:\ProgramData`),
	}
}

// IsElevated reports whether the process token is elevated.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
