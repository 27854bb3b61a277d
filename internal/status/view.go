package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/ui"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrOrange = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrCyan   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := max(m.Width, 50)

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " Sweeper status"))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("─", w)))
	s.WriteString("\n")

	if m.Snapshot == nil {
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting metrics…"))
		s.WriteString("\n")
		s.WriteString(m.renderStatusFooter())
		return s.String()
	}

	s.WriteString(m.renderOverview(w))
	s.WriteString("\n")
	s.WriteString(m.renderStatusFooter())
	return s.String()
}

func (m StatusModel) renderOverview(w int) string {
	snap := m.Snapshot
	barW := 24
	if w > 100 {
		barW = 36
	}

	info := []string{fmt.Sprintf("  Platform   %s", snap.Platform)}
	admin := lipgloss.NewStyle().Foreground(clrGreen).Render("yes")
	if !snap.Elevated {
		admin = lipgloss.NewStyle().Foreground(clrOrange).Render("no (system locations may be skipped)")
	}
	info = append(info, "  Admin      "+admin)

	var vols []string
	for _, v := range snap.Volumes {
		vols = append(vols,
			fmt.Sprintf("  %-12s %s  %5.1f%%  %s free of %s",
				v.Mount, colorBar(v.UsedPercent, barW), v.UsedPercent,
				core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total))),
			lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(
				fmt.Sprintf("  %-12s %s  %s", "", sparkline(m.FreeHistory[v.Mount], barW), v.rootsLabel())))
	}
	volCard := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorSecondary).
		Padding(0, 1).
		Render(strings.Join(vols, "\n"))

	recent := []string{lipgloss.NewStyle().Bold(true).Render("  Recent sweeps")}
	if len(snap.Recent) == 0 {
		recent = append(recent, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  none recorded"))
	}
	for _, l := range snap.Recent {
		recent = append(recent, "  "+ui.IconBullet+" "+l)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"", strings.Join(info, "\n"), "", volCard, "", strings.Join(recent, "\n"))
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m StatusModel) renderStatusFooter() string {
	hints := "  r refresh  " + ui.IconPipe + "  q quit"
	footer := ui.HintBarStyle().Render(hints)

	if m.Err != nil {
		errStr := lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render("  " + ui.IconError + " " + m.Err.Error())
		return errStr + "\n" + footer
	}
	return footer
}

// ─── Static output ──────────────────────────────────────────────────────────

// PrintStatic writes the snapshot as plain text, for pipes and terminals
// that cannot host the live view.
func PrintStatic(w io.Writer, snap *Snapshot) {
	fmt.Fprintf(w, "  Platform: %s\n", snap.Platform)
	fmt.Fprintf(w, "  Elevated: %t\n", snap.Elevated)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	for _, v := range snap.Volumes {
		fmt.Fprintf(w, "  %-12s %5.1f%% used  %s free of %s  (%s)\n",
			v.Mount, v.UsedPercent,
			core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total)), v.rootsLabel())
	}
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	if snap.AuditLog != "" {
		fmt.Fprintf(w, "  Sweep log: %s\n", snap.AuditLog)
	}
	if len(snap.Recent) == 0 {
		fmt.Fprintln(w, "  No sweeps recorded.")
	}
	for _, l := range snap.Recent {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

// colorBar renders a ████░░░░ bar colored by fill level.
func colorBar(pct float64, width int) string {
	pct = max(0, min(100, pct))
	filled := min(int(pct/100*float64(width)), width)

	barColor := clrGreen
	switch {
	case pct >= 90:
		barColor = clrRed
	case pct >= 75:
		barColor = clrOrange
	case pct >= 50:
		barColor = clrYellow
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// sparkline renders a mini chart scaled between the series min and max, so
// small changes in free space stay visible.
func sparkline(data []float64, width int) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	d := data
	if len(d) > width {
		d = d[len(d)-width:]
	}
	lo, hi := 0.0, 0.0
	for i, v := range d {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range d {
		idx := 3
		if span > 0 {
			idx = int((v - lo) / span * 7)
		}
		b.WriteRune(blocks[max(0, min(7, idx))])
	}
	for i := len(d); i < width; i++ {
		b.WriteRune(' ')
	}
	return lipgloss.NewStyle().Foreground(clrCyan).Render(b.String())
}
