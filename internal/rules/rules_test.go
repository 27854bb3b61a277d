package rules

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
)

func testRoots(t *testing.T) config.PathRoots {
	t.Helper()
	base := t.TempDir()
	return config.PathRoots{
		Local:  filepath.Join(base, "Local"),
		System: filepath.Join(base, "Windows"),
		Home:   filepath.Join(base, "home"),
	}
}

func TestParseSeverity(t *testing.T) {
	for _, s := range AllSeverities() {
		got, err := ParseSeverity(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseSeverity(" Moderate ")
	require.NoError(t, err)
	assert.Equal(t, Moderate, got)

	_, err = ParseSeverity("extreme")
	assert.Error(t, err)
	assert.Equal(t, []int{0, 1, 2}, []int{Safe.Rank(), Moderate.Rank(), Aggressive.Rank()})
}

func TestSeveritySet(t *testing.T) {
	set, err := ParseSeveritySet([]string{"aggressive", "safe"})
	require.NoError(t, err)
	assert.True(t, set.Has(Safe))
	assert.False(t, set.Has(Moderate))
	assert.Equal(t, []Severity{Safe, Aggressive}, set.Sorted())

	_, err = ParseSeveritySet([]string{"nope"})
	assert.Error(t, err)
}

func TestParseRuleFile(t *testing.T) {
	roots := testRoots(t)
	data := []byte(`
- label: Temp
  path: "{LOCAL}/Temp"
  min_age: 3
  severity: safe
  reason: leftovers
- label: Dumps
  path: ["{SYSTEM_ROOT}/MEMORY.DMP", "~/dumps"]
  min_size: 50MB
  severity: Moderate
- label: Edge
  path: edge_caches
  min_size: 1024
  severity: aggressive
- label: IDE
  path: "{LOCAL}/JetBrains/*/caches"
  severity: moderate
`)
	got, err := Parse(data, roots)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Temp", got[0].Label)
	assert.Equal(t, KindLiteral, got[0].Path.Kind())
	assert.Equal(t, []string{filepath.Join(roots.Local, "Temp")}, got[0].Path.Literals())
	assert.Equal(t, 3, got[0].MinAge)
	assert.Equal(t, "leftovers", got[0].Reason)

	assert.Equal(t, KindList, got[1].Path.Kind())
	assert.Equal(t, []string{
		filepath.Join(roots.System, "MEMORY.DMP"),
		filepath.Join(roots.Home, "dumps"),
	}, got[1].Path.Literals())
	assert.Equal(t, 50*core.MB, got[1].MinSize)
	assert.Equal(t, Moderate, got[1].Severity)

	assert.Equal(t, KindProvider, got[2].Path.Kind())
	assert.Equal(t, EdgeCachesID, got[2].Path.Provider().Name)
	assert.Equal(t, int64(1024), got[2].MinSize)

	assert.Equal(t, KindProvider, got[3].Path.Kind())
	assert.Contains(t, got[3].Path.Provider().Name, "glob:")
}

func TestParseReportsEveryInvalidRule(t *testing.T) {
	data := []byte(`
- label: ""
  path: /tmp/x
  severity: safe
- label: bad severity
  path: /tmp/y
  severity: extreme
- label: negative
  path: /tmp/z
  min_age: -1
  severity: safe
- label: no path
  severity: safe
- label: unknown placeholder
  path: "{LOCALAPPDATA}/x"
  severity: safe
- label: fine
  path: /tmp/ok
  severity: safe
`)
	_, err := Parse(data, testRoots(t))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"label is required", "unknown severity", "min_age", "path is required", "unknown placeholder"} {
		assert.Contains(t, msg, want)
	}
	assert.NotContains(t, msg, "fine")
}

func TestRootsWithGlobCharacters(t *testing.T) {
	base := filepath.Join(t.TempDir(), "John [Work] {1}")
	roots := config.PathRoots{
		Local:  filepath.Join(base, "AppData", "Local"),
		System: filepath.Join(t.TempDir(), "Windows"),
		Home:   base,
	}
	for _, p := range []string{"Temp", "JetBrains/IDEA/caches", "JetBrains/Rider/caches", "JetBrains/Rider/logs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(roots.Local, filepath.FromSlash(p)), 0o755))
	}

	got, err := Parse([]byte(`
- label: Temp
  path: "{LOCAL}/Temp"
  severity: safe
- label: Both
  path: ["{LOCAL}/Temp", "~/dumps"]
  severity: safe
- label: IDE
  path: "{LOCAL}/JetBrains/*/caches"
  severity: moderate
- label: Braces
  path: "/data/{CACHE}"
  severity: safe
`), roots)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, KindLiteral, got[0].Path.Kind())
	assert.Equal(t, []string{filepath.Join(roots.Local, "Temp")}, got[0].Path.Literals())

	assert.Equal(t, KindList, got[1].Path.Kind())
	assert.Equal(t, []string{
		filepath.Join(roots.Local, "Temp"),
		filepath.Join(base, "dumps"),
	}, got[1].Path.Literals())

	require.Equal(t, KindProvider, got[2].Path.Kind())
	assert.ElementsMatch(t, []string{
		filepath.Join(roots.Local, "JetBrains", "IDEA", "caches"),
		filepath.Join(roots.Local, "JetBrains", "Rider", "caches"),
	}, slices.Collect(got[2].Path.Provider().Enumerate))

	want, err := filepath.Abs("/data/{CACHE}")
	require.NoError(t, err)
	assert.Equal(t, KindLiteral, got[3].Path.Kind())
	assert.Equal(t, []string{want}, got[3].Path.Literals())
}

func TestGlobInPathListRejected(t *testing.T) {
	_, err := Parse([]byte("- label: x\n  path: [\"{LOCAL}/a\", \"{LOCAL}/*/b\"]\n  severity: safe\n"), testRoots(t))
	assert.ErrorContains(t, err, "glob patterns are not allowed")
}

func TestIsGlob(t *testing.T) {
	for raw, want := range map[string]bool{
		"{LOCAL}/Temp":               false,
		"{SYSTEM_ROOT}/Logs/CBS":     false,
		"/data/{CACHE}":              false,
		"{LOCAL}/JetBrains/*/caches": true,
		"~/cache?":                   true,
		"/a/[ab]":                    true,
		"/a/{x,y}/b":                 true,
	} {
		assert.Equal(t, want, isGlob(raw), raw)
	}
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "a[[]b][{]c[}][*][?]", escapeGlob("a[b]{c}*?"))
	assert.True(t, doublestar.ValidatePathPattern(escapeGlob("John [Work] {1}")))
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for name, data := range map[string]string{
		"empty":         "",
		"not a list":    "label: x\n",
		"unknown field": "- label: x\n  path: /a\n  severity: safe\n  colour: red\n",
		"empty list":    "[]\n",
		"path mapping":  "- label: x\n  path: {a: b}\n  severity: safe\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecords([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestStoreLoadFallsBack(t *testing.T) {
	roots := testRoots(t)
	builtin := Defaults(roots)
	require.NotEmpty(t, builtin)

	t.Run("missing file", func(t *testing.T) {
		got := Store{Path: filepath.Join(t.TempDir(), "absent.yaml"), Roots: roots}.Load()
		assert.Len(t, got, len(builtin))
	})

	t.Run("invalid file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(p, []byte("- label: x\n  severity: extreme\n"), 0o644))
		got := Store{Path: p, Roots: roots}.Load()
		assert.Len(t, got, len(builtin))
	})

	t.Run("valid file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(p, []byte("- label: only\n  path: /tmp/only\n  severity: safe\n"), 0o644))
		got := Store{Path: p, Roots: roots}.Load()
		require.Len(t, got, 1)
		assert.Equal(t, "only", got[0].Label)
	})
}

func TestDefaultsAllResolve(t *testing.T) {
	roots := testRoots(t)
	_, errs := resolveEach(DefaultRecords(), roots)
	assert.Empty(t, errs)

	labels := map[string]bool{}
	for _, r := range Defaults(roots) {
		assert.False(t, labels[r.Label], "duplicate label %q", r.Label)
		labels[r.Label] = true
		assert.True(t, r.Severity.Valid())
	}
}

func TestWriteTemplateRoundTrip(t *testing.T) {
	roots := testRoots(t)
	p := filepath.Join(t.TempDir(), "conf", "rules.yaml")
	require.NoError(t, WriteTemplate(p, false))
	assert.Error(t, WriteTemplate(p, false), "existing file must not be replaced")
	require.NoError(t, WriteTemplate(p, true))

	got, err := LoadFile(p, roots)
	require.NoError(t, err)
	want := Defaults(roots)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Label, got[i].Label)
		assert.Equal(t, want[i].MinSize, got[i].MinSize)
		assert.Equal(t, want[i].Path.String(), got[i].Path.String())
	}
}

func TestProfileCaches(t *testing.T) {
	base := t.TempDir()
	for _, p := range []string{
		"Default/Cache",
		"Default/Code Cache",
		"Profile 1/Cache",
		"System Profile/Other",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(p)), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "Local State"), []byte("{}"), 0o644))

	got := slices.Collect(ProfileCaches("test", base).Enumerate)
	assert.Equal(t, []string{
		filepath.Join(base, "Default", "Cache"),
		filepath.Join(base, "Default", "Code Cache"),
		filepath.Join(base, "Profile 1", "Cache"),
	}, got)

	assert.Empty(t, slices.Collect(ProfileCaches("none", filepath.Join(base, "missing")).Enumerate))
}

func TestGlobProvider(t *testing.T) {
	base := t.TempDir()
	for _, p := range []string{"A/caches", "B/caches", "C/other"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(p)), 0o755))
	}
	got := slices.Collect(GlobProvider(filepath.Join(base, "*", "caches")).Enumerate)
	assert.ElementsMatch(t, []string{
		filepath.Join(base, "A", "caches"),
		filepath.Join(base, "B", "caches"),
	}, got)
}

func TestRuleCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.True(t, Rule{}.Cutoff(now).IsZero())
	assert.Equal(t, now.Add(-48*time.Hour), Rule{MinAge: 2}.Cutoff(now))
}

func TestExpandPath(t *testing.T) {
	roots := testRoots(t)
	p, err := ExpandPath("~", roots)
	require.NoError(t, err)
	assert.Equal(t, roots.Home, p)

	p, err = ExpandPath("{SYSTEM_ROOT}/../Windows.old", roots)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(roots.System), "Windows.old"), p)

	_, err = ExpandPath("  ", roots)
	assert.Error(t, err)
}
