package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/ui"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := max(m.width, 60)

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	switch m.phase {
	case phaseBrowse:
		s.WriteString(m.renderList(w))
	case phaseConfirm:
		s.WriteString(m.renderConfirm())
	case phaseDeleting:
		s.WriteString(m.renderProgress(w))
	case phaseDone:
		s.WriteString(m.renderDone())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " Disk Sweeper")

	summary := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %s  %s  Potential space: %s",
			plural(len(m.items), "candidate"),
			ui.IconPipe,
			core.FormatSize(m.selectedSize())))

	sortLine := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("  %d selected %s sorted by %s", m.selectedCount(), ui.IconChevron, sortNames[m.sortBy]))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, summary, sortLine)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Width(w - 2).
		Render(inner)
}

// ─── Candidate list ──────────────────────────────────────────────────────────

func (m Model) renderList(w int) string {
	if len(m.items) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Nothing to clean.")
	}

	vh := m.viewportHeight()
	var lines []string
	for i := m.offset; i < len(m.items) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderItem(m.items[i], w, i == m.cursor))
	}
	if len(m.items) > vh {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d items ──", min(m.offset+vh, len(m.items)), len(m.items))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItem(it item, w int, current bool) string {
	check := ui.IconEmpty
	checkColor := ui.ColorMuted
	if it.selected {
		check = ui.IconSelected
		checkColor = ui.ColorPrimary
	}
	checkStr := lipgloss.NewStyle().Foreground(checkColor).Render(check)

	label := lipgloss.NewStyle().
		Foreground(ui.ColorText).
		Width(24).
		Render(ui.Truncate(it.cand.Rule.Label, 23))
	size := lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Render(core.FormatSize(it.cand.Size))
	path := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(ui.Truncate(it.cand.Path, max(12, w-60)))

	line := fmt.Sprintf("  %s %s %s  %s %s", checkStr, label, size, ui.SeverityBadge(it.cand.Rule.Severity), path)
	if current {
		cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render(ui.IconBlock)
		line = " " + cursor + line[2:]
		if it.cand.Rule.Reason != "" {
			line += "\n" + lipgloss.NewStyle().
				Foreground(ui.ColorTextDim).
				Italic(true).
				Render("      "+it.cand.Rule.Reason)
		}
	}
	return line
}

// ─── Confirm / progress / done ───────────────────────────────────────────────

func (m Model) renderConfirm() string {
	var lines []string
	sel := m.selected()

	if !m.opts.Elevated {
		if n := len(clean.NeedsElevation(sel, m.opts.SystemRoot)); n > 0 {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ui.ColorWarning).
				Render(fmt.Sprintf("  %s %s under %s may need administrator rights; some files may be skipped.",
					ui.IconWarning, plural(n, "item"), m.opts.SystemRoot)))
		}
	}

	verb := "Delete"
	if m.opts.Executor != nil && m.opts.Executor.DryRun {
		verb = "Simulate deleting"
	}
	lines = append(lines, lipgloss.NewStyle().
		Foreground(ui.ColorError).
		Bold(true).
		Render(fmt.Sprintf("  %s %s (%s)? This cannot be undone. [y/N]",
			verb, plural(len(sel), "item"), core.FormatSize(m.selectedSize()))))
	return strings.Join(lines, "\n")
}

func (m Model) renderProgress(w int) string {
	lines := []string{
		fmt.Sprintf("  %s Cleaning %d/%d  %s", m.spin.View(), m.done, m.toDelete, core.FormatSize(m.freed)),
		"  " + m.bar.ViewAs(pct(m.done, m.toDelete)),
	}
	if m.last != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Render("  "+ui.Truncate(m.last, w-4)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDone() string {
	rep := m.report
	if rep == nil {
		return ""
	}
	verb := "Freed"
	if rep.DryRun {
		verb = "Would free"
	}
	lines := []string{
		lipgloss.NewStyle().
			Foreground(ui.ColorSuccess).
			Bold(true).
			Render(fmt.Sprintf("  %s %s %s", ui.IconCheck, verb, core.FormatSize(rep.Freed))),
		fmt.Sprintf("  %d deleted, %d already gone, %d failed, %d refused",
			rep.Deleted, rep.Missing, len(rep.Failures), rep.Refused),
	}
	if rep.Canceled {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Render("  "+ui.IconWarning+" Aborted before every item was processed."))
	}
	for i, f := range rep.Failures {
		if i == 5 {
			lines = append(lines, fmt.Sprintf("  … and %d more", len(rep.Failures)-5))
			break
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render(fmt.Sprintf("  %s %s: %v", ui.IconCross, f.Path, f.Err)))
	}
	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var parts []string

	if m.err != nil {
		parts = append(parts,
			lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Render("  "+ui.IconError+" "+m.err.Error()))
	} else if m.status != "" {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render("  "+m.status))
	}

	var h []string
	switch m.phase {
	case phaseBrowse:
		k := m.keys
		h = hints(k.Up, k.Toggle, k.SelectAll, k.Invert, k.Sort, k.Export, k.Clean, k.Quit)
	case phaseConfirm:
		h = hints(m.keys.Confirm, m.keys.Back)
	case phaseDeleting:
		h = []string{"esc abort"}
	case phaseDone:
		h = []string{"any key to exit"}
	}
	parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(h, " "+ui.IconPipe+" ")))
	return strings.Join(parts, "\n")
}
