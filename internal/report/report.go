// Package report renders discovery results and deletion outcomes as plain
// text, for pipes and terminals without the interactive review.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/collect"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// Mode selects which severities a run includes and whether it deletes.
type Mode string

const (
	ModeReport Mode = "report" // list everything, delete nothing
	ModeClean  Mode = "clean"  // safe + moderate
	ModeDeep   Mode = "deep"   // every severity
)

// ParseMode accepts report, clean or deep.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeReport, ModeClean, ModeDeep:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected: report, clean, deep)", s)
}

// Severities returns the levels the mode includes.
func (m Mode) Severities() rules.SeveritySet {
	if m == ModeClean {
		return rules.NewSeveritySet(rules.Safe, rules.Moderate)
	}
	return rules.NewSeveritySet(rules.AllSeverities()...)
}

// Destructive reports whether the mode deletes candidates.
func (m Mode) Destructive() bool { return m == ModeClean || m == ModeDeep }

// Colors are dropped automatically when stdout is not a terminal.
var (
	safeStyle       = color.New(color.FgHiGreen)
	moderateStyle   = color.New(color.FgHiYellow)
	aggressiveStyle = color.New(color.FgHiRed, color.Bold)
	failStyle       = color.New(color.FgHiRed, color.Bold)
	subtleStyle     = color.New(color.FgHiBlack)
)

func severityStyle(s rules.Severity) *color.Color {
	switch s {
	case rules.Moderate:
		return moderateStyle
	case rules.Aggressive:
		return aggressiveStyle
	}
	return safeStyle
}

const (
	ruleWidth   = 88
	reasonWidth = 48
)

// Print writes the candidate review table, sorted by severity then size.
func Print(w io.Writer, mode Mode, cs []rules.Candidate) {
	sorted := slices.Clone(cs)
	collect.SortCandidates(sorted)

	fmt.Fprintln(w, "Disk-cleanup review")
	fmt.Fprintf(w, "Mode: %s | Candidates: %d | Potential space: %s\n",
		mode, len(sorted), core.FormatSize(collect.TotalSize(sorted)))
	fmt.Fprintln(w, strings.Repeat("—", ruleWidth))
	for _, c := range sorted {
		sev := severityStyle(c.Rule.Severity).Sprintf("%-10s", c.Rule.Severity)
		fmt.Fprintf(w, "%9s  %-22s %s %s\n",
			core.FormatSize(c.Size), c.Rule.Label, sev, Shorten(c.Rule.Reason, reasonWidth))
		fmt.Fprintf(w, "%13s%s\n", "", c.Path)
	}
	fmt.Fprintln(w, strings.Repeat("—", ruleWidth))
}

// Shorten collapses whitespace and, if the text is longer than width runes,
// cuts it at a word boundary and appends "…".
func Shorten(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)[:width-1]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// ProgressLine renders one executor progress event.
func ProgressLine(p clean.Progress) string {
	mark := safeStyle.Sprint("✓")
	switch p.Outcome {
	case clean.Missing:
		mark = subtleStyle.Sprint("·")
	case clean.Failed:
		mark = failStyle.Sprint("✗")
	case clean.Refused:
		mark = moderateStyle.Sprint("!")
	}
	line := fmt.Sprintf("%s %8s %s", mark, core.FormatSize(p.Candidate.Size), p.Candidate.Path)
	if p.Err != nil {
		line += "  (" + p.Err.Error() + ")"
	}
	return line
}

// PrintSummary writes the totals of a deletion batch.
func PrintSummary(w io.Writer, rep clean.Report) {
	verb := "Freed"
	if rep.DryRun {
		verb = "Would free"
	}
	fmt.Fprintf(w, "≈ %s %s\n", verb, core.FormatSize(rep.Freed))
	fmt.Fprintf(w, "  %d deleted, %d already gone, %d failed, %d refused\n",
		rep.Deleted, rep.Missing, len(rep.Failures), rep.Refused)
	if rep.Canceled {
		fmt.Fprintln(w, "  Cancelled before every candidate was processed.")
	}
}
