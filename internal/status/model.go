// Package status shows free space on the volumes that hold the sweep roots
// together with the most recent sweeps.
package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type metricsMsg struct {
	snap *Snapshot
	err  error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the live status view.
type StatusModel struct {
	Snapshot        *Snapshot
	Width           int
	Height          int
	collector       *Collector
	refreshInterval time.Duration
	quitting        bool
	Err             error

	// Free-space history per mount (last 60 readings).
	FreeHistory map[string][]float64
}

// NewStatusModel creates a StatusModel with the given refresh cadence.
func NewStatusModel(c *Collector, refreshInterval time.Duration) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = 2 * time.Second
	}
	return StatusModel{
		Width:           80,
		Height:          24,
		collector:       c,
		refreshInterval: refreshInterval,
		FreeHistory:     map[string][]float64{},
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collectMetrics() tea.Cmd {
	c := m.collector
	return func() tea.Msg {
		snap, err := c.CollectMetrics(context.Background())
		return metricsMsg{snap: snap, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first metricsMsg starts the tick loop, keeping collection and
	// display strictly sequential.
	return m.collectMetrics()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.collectMetrics()
		}
		return m, nil

	case tickMsg:
		return m, m.collectMetrics()

	case metricsMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Err = nil
		m.Snapshot = msg.snap
		for _, v := range msg.snap.Volumes {
			m.FreeHistory[v.Mount] = appendF64(m.FreeHistory[v.Mount], float64(v.Free), 60)
		}
		return m, m.doTick()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendF64(h []float64, v float64, maxLen int) []float64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
