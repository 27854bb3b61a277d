package rules

import (
	"iter"
	"strings"
	"time"
)

// PathKind tags the variant held by a PathSpec.
type PathKind int

const (
	// KindLiteral is a single filesystem path.
	KindLiteral PathKind = iota
	// KindList is a fixed list of filesystem paths.
	KindList
	// KindProvider enumerates paths at discovery time.
	KindProvider
)

// Provider lazily enumerates concrete paths for locations that cannot be
// known up front, such as every browser profile's cache directory.
type Provider struct {
	Name      string
	Enumerate iter.Seq[string]
}

// PathSpec is the path field of a Rule: Literal, LiteralList or Provider.
type PathSpec struct {
	kind     PathKind
	paths    []string
	provider Provider
}

// Literal returns a spec for one path.
func Literal(path string) PathSpec {
	return PathSpec{kind: KindLiteral, paths: []string{path}}
}

// LiteralList returns a spec for a fixed list of paths.
func LiteralList(paths ...string) PathSpec {
	return PathSpec{kind: KindList, paths: append([]string(nil), paths...)}
}

// FromProvider returns a spec backed by p.
func FromProvider(p Provider) PathSpec {
	return PathSpec{kind: KindProvider, provider: p}
}

func (s PathSpec) Kind() PathKind { return s.kind }

// Literals returns a copy of the literal paths (nil for providers).
func (s PathSpec) Literals() []string {
	if s.kind == KindProvider {
		return nil
	}
	return append([]string(nil), s.paths...)
}

// Provider returns the provider; only meaningful for KindProvider.
func (s PathSpec) Provider() Provider { return s.provider }

// String renders the path for listings.
func (s PathSpec) String() string {
	if s.kind == KindProvider {
		return "<" + s.provider.Name + ">"
	}
	return strings.Join(s.paths, ", ")
}

// Rule is an immutable cleanup rule.
type Rule struct {
	Label    string
	Path     PathSpec
	MinSize  int64 // bytes; candidates smaller than this are dropped
	MinAge   int   // days; 0 disables the age filter
	Severity Severity
	Reason   string
}

// Cutoff returns the age cutoff for now, or the zero time when the rule
// has no age filter. Only files modified strictly before it count.
func (r Rule) Cutoff(now time.Time) time.Time {
	if r.MinAge <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(r.MinAge) * 24 * time.Hour)
}

// Candidate is a concrete, sized deletion target produced by one rule.
type Candidate struct {
	Rule Rule
	Path string
	Size int64
}
