// Package ui holds the shared colour tokens, icons and styles used by every
// terminal view.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#e11d48", Dark: "#fb7185"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond  = "◆"
	IconChevron  = "›"
	IconPipe     = "│"
	IconBullet   = "•"
	IconBlock    = "▌"
	IconCheck    = "✓"
	IconCross    = "✗"
	IconWarning  = "⚠"
	IconError    = "✖"
	IconSelected = "[x]"
	IconEmpty    = "[ ]"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// HintBarStyle is the dim italic style of key-hint footers.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
}

// TagWarningStyle renders a small inverted warning tag.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#111827")).
		Background(ColorWarning).
		Bold(true)
}

// TitleStyle is used for view headings.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

// SeverityColor maps a severity to its colour: safe green, moderate orange,
// aggressive red.
func SeverityColor(s rules.Severity) lipgloss.AdaptiveColor {
	switch s {
	case rules.Safe:
		return ColorSuccess
	case rules.Moderate:
		return ColorWarning
	default:
		return ColorError
	}
}

// SeverityBadge renders the severity name in its colour, padded to a
// fixed width so columns line up.
func SeverityBadge(s rules.Severity) string {
	return lipgloss.NewStyle().
		Foreground(SeverityColor(s)).
		Bold(s == rules.Aggressive).
		Width(10).
		Render(s.String())
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

// GradientBar renders a ████░░░░ bar for pct (0-100) that shifts from the
// primary colour to coral as it fills.
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(100, pct))
	filled := int(pct / 100 * float64(width))

	barColor := ColorPrimary
	if pct >= 50 {
		barColor = ColorCoral
	}
	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// Truncate shortens s to at most n runes, keeping the tail, which is the
// informative end of a path.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}
