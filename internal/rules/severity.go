package rules

import (
	"fmt"
	"strings"
)

// Severity is the risk tier of a rule, ordered by increasing risk of
// removing something the user might want.
type Severity int

const (
	Safe Severity = iota
	Moderate
	Aggressive
)

var severityNames = [...]string{"safe", "moderate", "aggressive"}

// AllSeverities lists every level in rank order.
func AllSeverities() []Severity {
	return []Severity{Safe, Moderate, Aggressive}
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Rank is the canonical sort key: safe=0, moderate=1, aggressive=2.
func (s Severity) Rank() int { return int(s) }

// Valid reports whether s is one of the three defined levels.
func (s Severity) Valid() bool { return s >= Safe && s <= Aggressive }

// ParseSeverity converts "safe", "moderate" or "aggressive" (any case).
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q (expected: safe, moderate, aggressive)", s)
}

// SeveritySet is a set of severities to include in discovery.
type SeveritySet map[Severity]struct{}

// NewSeveritySet returns a set containing levels.
func NewSeveritySet(levels ...Severity) SeveritySet {
	set := make(SeveritySet, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return set
}

// ParseSeveritySet parses a list such as ["safe", "moderate"].
func ParseSeveritySet(names []string) (SeveritySet, error) {
	set := make(SeveritySet, len(names))
	for _, n := range names {
		s, err := ParseSeverity(n)
		if err != nil {
			return nil, err
		}
		set[s] = struct{}{}
	}
	return set, nil
}

// Has reports whether s is in the set.
func (set SeveritySet) Has(s Severity) bool {
	_, ok := set[s]
	return ok
}

// Sorted returns the members in rank order.
func (set SeveritySet) Sorted() []Severity {
	var out []Severity
	for _, s := range AllSeverities() {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}
