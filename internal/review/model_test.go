package review

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func sampleCandidates() []rules.Candidate {
	return []rules.Candidate{
		{Rule: rules.Rule{Label: "Zeta", Severity: rules.Aggressive}, Path: "/z", Size: 10},
		{Rule: rules.Rule{Label: "alpha", Severity: rules.Safe}, Path: "/a", Size: 5},
		{Rule: rules.Rule{Label: "Mid", Severity: rules.Safe}, Path: "/m", Size: 50},
	}
}

func labels(m Model) []string {
	var out []string
	for _, it := range m.items {
		out = append(out, it.cand.Rule.Label)
	}
	return out
}

func TestNewSortsBySeverityThenSize(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	assert.Equal(t, []string{"Mid", "alpha", "Zeta"}, labels(m))
	assert.Equal(t, 0, m.selectedCount())
}

func TestSortCycle(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	m, _ = press(t, m, keyRunes("s"))
	assert.Equal(t, []string{"Mid", "Zeta", "alpha"}, labels(m), "size")
	m, _ = press(t, m, keyRunes("s"))
	assert.Equal(t, []string{"alpha", "Mid", "Zeta"}, labels(m), "label")
	m, _ = press(t, m, keyRunes("s"))
	assert.Equal(t, sortSeverity, m.sortBy)
}

func TestSelectionKeys(t *testing.T) {
	m := New(sampleCandidates(), Options{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 1, m.selectedCount())
	assert.Equal(t, int64(50), m.selectedSize())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, keyRunes("i"))
	assert.Equal(t, 2, m.selectedCount())
	assert.False(t, m.items[0].selected)

	m, _ = press(t, m, keyRunes("a"))
	assert.Equal(t, 3, m.selectedCount())
	m, _ = press(t, m, keyRunes("a"))
	assert.Equal(t, 0, m.selectedCount())
}

func TestEnterWithoutSelection(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, phaseBrowse, m.phase)
	assert.Equal(t, "Nothing selected.", m.status)
}

func TestConfirmCanBeDeclined(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, phaseConfirm, m.phase)
	assert.Contains(t, m.View(), "Delete 1 item")

	m, _ = press(t, m, keyRunes("n"))
	assert.Equal(t, phaseBrowse, m.phase)
}

func TestConfirmWarnsAboutSystemRoot(t *testing.T) {
	sys := filepath.Join(string(filepath.Separator), "Windows")
	cs := []rules.Candidate{{Rule: rules.Rule{Label: "Prefetch", Severity: rules.Moderate}, Path: filepath.Join(sys, "Prefetch"), Size: 1}}

	m := New(cs, Options{SystemRoot: sys})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "administrator")

	m = New(cs, Options{SystemRoot: sys, Elevated: true})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotContains(t, m.View(), "administrator")
}

func TestDeletionFlow(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep")
	drop := filepath.Join(dir, "drop")
	require.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(drop, []byte("dd"), 0o644))

	cs := []rules.Candidate{
		{Rule: rules.Rule{Label: "drop", Severity: rules.Safe}, Path: drop, Size: 2},
		{Rule: rules.Rule{Label: "keep", Severity: rules.Safe}, Path: keep, Size: 1},
	}
	m := New(cs, Options{Executor: &clean.Executor{}})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, keyRunes("y"))
	require.Equal(t, phaseDeleting, m.phase)
	require.NotNil(t, cmd)

	// Run the deletion synchronously instead of through a program.
	sel := m.selected()
	rep := (&clean.Executor{}).DeleteAll(t.Context(), sel)
	m, _ = press(t, m, deleteDoneMsg{report: rep, gone: map[string]bool{drop: true}})

	assert.Equal(t, phaseDone, m.phase)
	require.NotNil(t, m.Report())
	assert.Equal(t, int64(2), m.Report().Freed)
	assert.NoFileExists(t, drop)
	assert.FileExists(t, keep)
	assert.Equal(t, []string{"keep"}, labels(m))
	assert.Contains(t, m.View(), "Freed 2 B")

	_, cmd = press(t, m, keyRunes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAbortCancelsContext(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("y"))
	require.Equal(t, phaseDeleting, m.phase)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.status, "Aborting")
}

func TestProgressMsgUpdatesCounters(t *testing.T) {
	m := New(sampleCandidates(), Options{})
	m.phase = phaseDeleting
	m.toDelete = 3
	ch := make(chan clean.Progress)
	close(ch)
	m.updates = ch

	m, cmd := press(t, m, progressMsg{Index: 1, Freed: 60, Candidate: sampleCandidates()[0]})
	assert.Equal(t, 2, m.done)
	assert.Equal(t, int64(60), m.freed)
	require.NotNil(t, cmd)
	assert.Nil(t, cmd(), "closed channel yields no message")
}

func TestExportKey(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.csv")
	m := New(sampleCandidates(), Options{ExportPath: p})
	m, cmd := press(t, m, keyRunes("e"))
	require.NotNil(t, cmd)

	m, _ = press(t, m, cmd())
	assert.Nil(t, m.err)
	assert.Contains(t, m.status, p)
	assert.FileExists(t, p)
}
