package rules

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
)

// Placeholders substituted into rule paths.
const (
	LocalPlaceholder  = "{LOCAL}"
	SystemPlaceholder = "{SYSTEM_ROOT}"
)

// unknownPlaceholderRe catches misspelled placeholders such as {LOCALAPPDATA}
// or {SYSTEM}. Other braces are literal path text.
var unknownPlaceholderRe = regexp.MustCompile(`\{(?:LOCAL|SYSTEM)[A-Z_]*\}`)

var alternationRe = regexp.MustCompile(`\{[^{}]*,[^{}]*\}`)

// Resolve validates records and turns them into rules. Every invalid record
// is reported; if any record fails, no rules are returned.
func Resolve(recs []Record, roots config.PathRoots) ([]Rule, error) {
	out, errs := resolveEach(recs, roots)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func resolveEach(recs []Record, roots config.PathRoots) ([]Rule, []error) {
	var (
		out  = make([]Rule, 0, len(recs))
		errs []error
	)
	for i, rec := range recs {
		r, err := resolveRecord(rec, roots)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%q): %w", i+1, rec.Label, err))
			continue
		}
		out = append(out, r)
	}
	return out, errs
}

func resolveRecord(rec Record, roots config.PathRoots) (Rule, error) {
	label := strings.TrimSpace(rec.Label)
	if label == "" {
		return Rule{}, errors.New("label is required")
	}
	sev, err := ParseSeverity(rec.Severity)
	if err != nil {
		return Rule{}, err
	}
	if rec.MinSize < 0 {
		return Rule{}, fmt.Errorf("min_size must not be negative (got %d)", rec.MinSize)
	}
	if rec.MinAge < 0 {
		return Rule{}, fmt.Errorf("min_age must not be negative (got %d)", rec.MinAge)
	}
	spec, err := resolvePath(rec.Path, roots)
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Label:    label,
		Path:     spec,
		MinSize:  int64(rec.MinSize),
		MinAge:   rec.MinAge,
		Severity: sev,
		Reason:   strings.TrimSpace(rec.Reason),
	}, nil
}

func resolvePath(v PathValue, roots config.PathRoots) (PathSpec, error) {
	if v.Many != nil {
		if len(v.Many) == 0 {
			return PathSpec{}, errors.New("path list is empty")
		}
		paths := make([]string, 0, len(v.Many))
		for _, raw := range v.Many {
			if isGlob(raw) {
				return PathSpec{}, fmt.Errorf("glob patterns are not allowed in path lists: %q", raw)
			}
			p, err := ExpandPath(raw, roots)
			if err != nil {
				return PathSpec{}, err
			}
			paths = append(paths, p)
		}
		return LiteralList(paths...), nil
	}

	raw := strings.TrimSpace(v.One)
	if raw == "" {
		return PathSpec{}, errors.New("path is required")
	}
	if p, ok := builtinProvider(raw, roots); ok {
		return FromProvider(p), nil
	}
	if !isGlob(raw) {
		p, err := ExpandPath(raw, roots)
		if err != nil {
			return PathSpec{}, err
		}
		return Literal(p), nil
	}

	pattern, err := expand(raw, roots, escapeGlob)
	if err != nil {
		return PathSpec{}, err
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return PathSpec{}, fmt.Errorf("invalid glob pattern %q", raw)
	}
	return FromProvider(GlobProvider(pattern)), nil
}

// ExpandPath substitutes {LOCAL} and {SYSTEM_ROOT}, expands a leading "~"
// and returns an absolute, cleaned path.
func ExpandPath(raw string, roots config.PathRoots) (string, error) {
	return expand(raw, roots, func(s string) string { return s })
}

// expand is ExpandPath with every substituted root passed through quote.
func expand(raw string, roots config.PathRoots, quote func(string) string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("empty path")
	}
	if m := unknownPlaceholderRe.FindString(stripPlaceholders(s)); m != "" {
		return "", fmt.Errorf("unknown placeholder %s in %q", m, raw)
	}
	s = strings.ReplaceAll(s, LocalPlaceholder, quote(roots.Local))
	s = strings.ReplaceAll(s, SystemPlaceholder, quote(roots.System))

	if s == "~" || strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		if roots.Home == "" {
			return "", fmt.Errorf("cannot expand ~ in %q: home directory unknown", raw)
		}
		s = quote(filepath.Clean(roots.Home)) + s[1:]
	}

	abs, err := filepath.Abs(s)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", raw, err)
	}
	return abs, nil
}

// isGlob reports whether the path as written, placeholders aside, holds
// glob syntax: "*", "?", "[" or a {a,b} alternation. Characters coming from
// the roots never count, and braces without a comma are literal.
func isGlob(raw string) bool {
	s := stripPlaceholders(raw)
	return strings.ContainsAny(s, "*?[") || alternationRe.MatchString(s)
}

func stripPlaceholders(s string) string {
	s = strings.ReplaceAll(s, LocalPlaceholder, "")
	return strings.ReplaceAll(s, SystemPlaceholder, "")
}

// escapeGlob makes s match itself inside a doublestar pattern. Each
// metacharacter becomes a one-character class, since backslash is a path
// separator on Windows. A lone "]" is already literal.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune("*?[{}", r):
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		case r == '\\' && filepath.Separator != '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
