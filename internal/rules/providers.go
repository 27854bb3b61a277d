package rules

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
)

// Reserved path identifiers that select a built-in provider.
const (
	EdgeCachesID   = "edge_caches"
	ChromeCachesID = "chrome_caches"
)

// profileCacheDirs are the per-profile directories a browser rebuilds on demand.
var profileCacheDirs = []string{"Cache", "Code Cache"}

// EdgeUserData is the Edge profile root under roots.
func EdgeUserData(r config.PathRoots) string {
	return filepath.Join(r.Local, "Microsoft", "Edge", "User Data")
}

// ChromeUserData is the Chrome profile root under roots.
func ChromeUserData(r config.PathRoots) string {
	return filepath.Join(r.Local, "Google", "Chrome", "User Data")
}

// builtinProvider returns the provider reserved under id, if any.
func builtinProvider(id string, r config.PathRoots) (Provider, bool) {
	switch id {
	case EdgeCachesID:
		return ProfileCaches(EdgeCachesID, EdgeUserData(r)), true
	case ChromeCachesID:
		return ProfileCaches(ChromeCachesID, ChromeUserData(r)), true
	}
	return Provider{}, false
}

// ProfileCaches yields <base>/<profile>/Cache and <base>/<profile>/Code Cache
// for every profile directory where they exist. A missing base yields nothing.
func ProfileCaches(name, base string) Provider {
	return Provider{
		Name: name,
		Enumerate: func(yield func(string) bool) {
			entries, err := os.ReadDir(base)
			if err != nil {
				return
			}
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				for _, sub := range profileCacheDirs {
					p := filepath.Join(base, e.Name(), sub)
					if _, err := os.Stat(p); err != nil {
						continue
					}
					if !yield(p) {
						return
					}
				}
			}
		},
	}
}

// GlobProvider yields the filesystem matches of pattern ("**" supported).
// An invalid pattern yields nothing; Resolve validates patterns up front.
func GlobProvider(pattern string) Provider {
	return Provider{
		Name: "glob:" + filepath.ToSlash(pattern),
		Enumerate: func(yield func(string) bool) {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return
			}
			for _, m := range matches {
				if !yield(m) {
					return
				}
			}
		},
	}
}
