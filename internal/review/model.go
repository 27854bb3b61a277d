// Package review is the interactive candidate browser: select, sort, export
// and delete with live progress.
package review

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/collect"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// ─── Phases & sorting ────────────────────────────────────────────────────────

type phase int

const (
	phaseBrowse phase = iota
	phaseConfirm
	phaseDeleting
	phaseDone
)

type sortKey int

const (
	sortSeverity sortKey = iota // severity rank, then size descending
	sortSize
	sortLabel
)

var sortNames = []string{"severity", "size", "label"}

// ─── Messages ────────────────────────────────────────────────────────────────

type progressMsg clean.Progress

type deleteDoneMsg struct {
	report clean.Report
	gone   map[string]bool // paths deleted or already missing
}

type exportMsg struct {
	path string
	err  error
}

// ─── Model ───────────────────────────────────────────────────────────────────

type item struct {
	cand     rules.Candidate
	selected bool
}

// Options wires the model to the rest of the program.
type Options struct {
	// Executor performs the deletion. Its Progress callback is replaced.
	Executor *clean.Executor

	// SystemRoot and Elevated drive the administrator warning.
	SystemRoot string
	Elevated   bool

	// ExportPath is where "e" writes the CSV report.
	ExportPath string
}

// Model is the bubbletea Model for the review screen.
type Model struct {
	items  []item
	cursor int
	offset int
	width  int
	height int
	sortBy sortKey
	phase  phase
	keys   keyMap

	opts     Options
	cancel   context.CancelFunc
	updates  chan clean.Progress
	bar      progress.Model
	spin     spinner.Model
	toDelete int
	done     int
	freed    int64
	last     string
	report   *clean.Report

	status   string
	err      error
	quitting bool
}

// New builds a model over cs. Nothing is selected initially.
func New(cs []rules.Candidate, opts Options) Model {
	items := make([]item, len(cs))
	for i, c := range cs {
		items[i] = item{cand: c}
	}
	if opts.ExportPath == "" {
		opts.ExportPath = "sweep_report.csv"
	}
	m := Model{
		items:  items,
		width:  80,
		height: 24,
		keys:   defaultKeys(),
		opts:   opts,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.applySort()
	return m
}

// Report returns the deletion result, or nil if nothing was deleted.
func (m Model) Report() *clean.Report { return m.report }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, msg.Width-30))
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseBrowse:
			return m.updateBrowse(msg)
		case phaseConfirm:
			return m.updateConfirm(msg)
		case phaseDeleting:
			// Abort takes effect before the next candidate.
			if key.Matches(msg, m.keys.Back, m.keys.Quit) && m.cancel != nil {
				m.cancel()
				m.status = "Aborting after the current item…"
			}
			return m, nil
		case phaseDone:
			m.quitting = true
			return m, tea.Quit
		}

	case progressMsg:
		m.done = msg.Index + 1
		m.freed = msg.Freed
		m.last = msg.Candidate.Path
		return m, waitForProgress(m.updates)

	case deleteDoneMsg:
		rep := msg.report
		m.report = &rep
		m.phase = phaseDone
		if m.cancel != nil {
			m.cancel()
		}
		if !rep.DryRun {
			m.removeGone(msg.gone)
		}
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Report exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseDeleting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "esc":
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.items) {
			m.items[m.cursor].selected = !m.items[m.cursor].selected
		}

	case key.Matches(msg, m.keys.SelectAll):
		// Select all, or clear all if everything is already selected.
		all := len(m.items) > 0 && m.selectedCount() == len(m.items)
		for i := range m.items {
			m.items[i].selected = !all
		}

	case key.Matches(msg, m.keys.Invert):
		for i := range m.items {
			m.items[i].selected = !m.items[i].selected
		}

	case key.Matches(msg, m.keys.Sort):
		m.sortBy = (m.sortBy + 1) % sortKey(len(sortNames))
		m.applySort()
		m.status = "Sorted by " + sortNames[m.sortBy]

	case key.Matches(msg, m.keys.Export):
		return m, exportCSV(m.opts.ExportPath, m.candidates())

	case key.Matches(msg, m.keys.Clean):
		if m.selectedCount() == 0 {
			m.status = "Nothing selected."
			return m, nil
		}
		m.phase = phaseConfirm
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.startDeletion()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	default:
		m.phase = phaseBrowse
		m.status = ""
	}
	return m, nil
}

// startDeletion runs the executor in the background; progress events flow
// back through a buffered channel so the executor never blocks on the UI.
func (m Model) startDeletion() (tea.Model, tea.Cmd) {
	sel := m.selected()
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan clean.Progress, len(sel))

	exec := clean.Executor{}
	if m.opts.Executor != nil {
		exec = *m.opts.Executor
	}
	gone := make(map[string]bool, len(sel))
	exec.Progress = func(p clean.Progress) {
		if p.Outcome == clean.Deleted || p.Outcome == clean.Missing {
			gone[p.Candidate.Path] = true
		}
		updates <- p
	}

	m.phase = phaseDeleting
	m.cancel = cancel
	m.updates = updates
	m.toDelete = len(sel)
	m.done = 0
	m.freed = 0
	m.status = ""

	run := func() tea.Msg {
		rep := exec.DeleteAll(ctx, sel)
		close(updates)
		return deleteDoneMsg{report: rep, gone: gone}
	}
	return m, tea.Batch(run, waitForProgress(updates), m.spin.Tick)
}

func waitForProgress(ch <-chan clean.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func exportCSV(path string, cs []rules.Candidate) tea.Cmd {
	return func() tea.Msg {
		return exportMsg{path: path, err: report.ExportCSV(path, cs)}
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Model) applySort() {
	cs := m.items
	switch m.sortBy {
	case sortSeverity:
		slices.SortStableFunc(cs, func(a, b item) int {
			ra, rb := collect.SeverityRank(a.cand.Rule.Severity), collect.SeverityRank(b.cand.Rule.Severity)
			if ra != rb {
				return cmp.Compare(ra, rb)
			}
			return cmp.Compare(b.cand.Size, a.cand.Size)
		})
	case sortSize:
		slices.SortStableFunc(cs, func(a, b item) int { return cmp.Compare(b.cand.Size, a.cand.Size) })
	case sortLabel:
		slices.SortStableFunc(cs, func(a, b item) int {
			return strings.Compare(strings.ToLower(a.cand.Rule.Label), strings.ToLower(b.cand.Rule.Label))
		})
	}
	m.cursor = 0
	m.offset = 0
}

func (m Model) selectedCount() int {
	n := 0
	for _, it := range m.items {
		if it.selected {
			n++
		}
	}
	return n
}

func (m Model) selected() []rules.Candidate {
	var out []rules.Candidate
	for _, it := range m.items {
		if it.selected {
			out = append(out, it.cand)
		}
	}
	return out
}

func (m Model) selectedSize() int64 {
	return collect.TotalSize(m.selected())
}

func (m Model) candidates() []rules.Candidate {
	out := make([]rules.Candidate, len(m.items))
	for i, it := range m.items {
		out[i] = it.cand
	}
	return out
}

// removeGone drops candidates whose paths no longer exist. Failed and
// refused items stay listed.
func (m *Model) removeGone(gone map[string]bool) {
	m.items = slices.DeleteFunc(m.items, func(it item) bool {
		return it.selected && gone[it.cand.Path]
	})
	m.cursor = min(m.cursor, max(0, len(m.items)-1))
	m.offset = 0
}

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Model) viewportHeight() int {
	return max(1, m.height-9) // header (4) + footer (4) + padding
}

func pct(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
