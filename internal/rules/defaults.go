package rules

import (
	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
)

// DefaultRecords returns the built-in rule set in rule-file form. It is what
// `sweep rules init` writes and what Load falls back to.
func DefaultRecords() []Record {
	return []Record{
		// ─── Safe ───
		{
			Label:    "User Temp",
			Path:     PathValue{One: "{LOCAL}/Temp"},
			MinAge:   2,
			Severity: "safe",
			Reason:   "Temporary files left behind by applications",
		},
		{
			Label:    "System Temp",
			Path:     PathValue{One: "{SYSTEM_ROOT}/Temp"},
			MinAge:   2,
			Severity: "safe",
			Reason:   "Temporary files written by Windows and installers",
		},
		{
			Label:    "Thumbnail Cache",
			Path:     PathValue{One: "{LOCAL}/Microsoft/Windows/Explorer/thumbcache_*.db"},
			Severity: "safe",
			Reason:   "Explorer rebuilds thumbnails on demand",
		},
		{
			Label:    "Edge Cache",
			Path:     PathValue{One: EdgeCachesID},
			MinSize:  ByteSize(core.MB),
			Severity: "safe",
			Reason:   "Browser cache, re-downloaded as pages are visited",
		},
		{
			Label:    "Chrome Cache",
			Path:     PathValue{One: ChromeCachesID},
			MinSize:  ByteSize(core.MB),
			Severity: "safe",
			Reason:   "Browser cache, re-downloaded as pages are visited",
		},
		{
			Label:    "Firefox Cache",
			Path:     PathValue{One: "{LOCAL}/Mozilla/Firefox/Profiles/*/cache2"},
			MinSize:  ByteSize(core.MB),
			Severity: "safe",
			Reason:   "Browser cache, re-downloaded as pages are visited",
		},
		{
			Label:    "pip Cache",
			Path:     PathValue{One: "{LOCAL}/pip/Cache"},
			Severity: "safe",
			Reason:   "Downloaded wheels; pip fetches them again when needed",
		},
		{
			Label:    "npm Cache",
			Path:     PathValue{Many: []string{"~/.npm/_cacache", "~/AppData/Roaming/npm-cache"}},
			Severity: "safe",
			Reason:   "Package tarballs; npm fetches them again when needed",
		},
		{
			Label:    "Cargo Registry Cache",
			Path:     PathValue{One: "~/.cargo/registry/cache"},
			Severity: "safe",
			Reason:   "Crate archives; cargo fetches them again when needed",
		},
		{
			Label:    "Go Module Download Cache",
			Path:     PathValue{One: "~/go/pkg/mod/cache/download"},
			Severity: "safe",
			Reason:   "Module zips; go fetches them again when needed",
		},
		{
			Label: "VS Code Cache",
			Path: PathValue{Many: []string{
				"{LOCAL}/Code/Cache",
				"~/AppData/Roaming/Code/Cache",
				"~/AppData/Roaming/Code/CachedData",
			}},
			Severity: "safe",
			Reason:   "Editor caches, rebuilt on next launch",
		},
		{
			Label: "Windows Error Reports",
			Path: PathValue{Many: []string{
				"{LOCAL}/Microsoft/Windows/WER/ReportArchive",
				"{LOCAL}/Microsoft/Windows/WER/ReportQueue",
			}},
			Severity: "safe",
			Reason:   "Crash reports that were already sent or never will be",
		},
		{
			Label:    "CBS Logs",
			Path:     PathValue{One: "{SYSTEM_ROOT}/Logs/CBS"},
			MinAge:   7,
			Severity: "safe",
			Reason:   "Component servicing logs",
		},
		{
			Label:    "DISM Logs",
			Path:     PathValue{One: "{SYSTEM_ROOT}/Logs/DISM"},
			MinAge:   7,
			Severity: "safe",
			Reason:   "Image servicing logs",
		},

		// ─── Moderate ───
		{
			Label:    "Prefetch",
			Path:     PathValue{One: "{SYSTEM_ROOT}/Prefetch"},
			Severity: "moderate",
			Reason:   "Windows rebuilds it, but the next few app launches are slower",
		},
		{
			Label:    "Windows Update Cache",
			Path:     PathValue{One: "{SYSTEM_ROOT}/SoftwareDistribution/Download"},
			MinSize:  ByteSize(10 * core.MB),
			Severity: "moderate",
			Reason:   "Downloaded updates; pending installs may need to download again",
		},
		{
			Label:    "Delivery Optimization",
			Path:     PathValue{One: "{SYSTEM_ROOT}/SoftwareDistribution/DeliveryOptimization"},
			MinSize:  ByteSize(10 * core.MB),
			Severity: "moderate",
			Reason:   "Peer-to-peer update cache",
		},
		{
			Label:    "JetBrains Caches",
			Path:     PathValue{One: "{LOCAL}/JetBrains/*/caches"},
			MinSize:  ByteSize(10 * core.MB),
			Severity: "moderate",
			Reason:   "IDE indexes; projects re-index on next open",
		},
		{
			Label:    "Gradle Caches",
			Path:     PathValue{One: "~/.gradle/caches"},
			MinSize:  ByteSize(10 * core.MB),
			Severity: "moderate",
			Reason:   "Build dependencies; next build downloads them again",
		},
		{
			Label:    "NuGet Packages",
			Path:     PathValue{One: "~/.nuget/packages"},
			MinSize:  ByteSize(10 * core.MB),
			Severity: "moderate",
			Reason:   "Package cache; next restore downloads them again",
		},
		{
			Label:    "Memory Dumps",
			Path:     PathValue{Many: []string{"{SYSTEM_ROOT}/MEMORY.DMP", "{SYSTEM_ROOT}/Minidump"}},
			Severity: "moderate",
			Reason:   "Crash dumps; only useful when debugging a crash",
		},

		// ─── Aggressive ───
		{
			Label:    "WinSxS Pending Deletes",
			Path:     PathValue{One: "{SYSTEM_ROOT}/WinSxS/Temp/PendingDeletes"},
			Severity: "aggressive",
			Reason:   "Component store leftovers; requires administrator rights",
		},
		{
			Label:    "Previous Windows Installation",
			Path:     PathValue{One: "{SYSTEM_ROOT}/../Windows.old"},
			MinSize:  ByteSize(100 * core.MB),
			Severity: "aggressive",
			Reason:   "Removes the ability to roll back to the previous Windows version",
		},
	}
}

// Defaults resolves the built-in rule set against roots.
func Defaults(roots config.PathRoots) []Rule {
	out, _ := resolveEach(DefaultRecords(), roots)
	return out
}
