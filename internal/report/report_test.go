package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

func init() { color.NoColor = true }

func sample() []rules.Candidate {
	return []rules.Candidate{
		{Rule: rules.Rule{Label: "Old Windows", Severity: rules.Aggressive, Reason: "rollback"}, Path: `C:\Windows.old`, Size: 3 * core.GB},
		{Rule: rules.Rule{Label: "Temp", Severity: rules.Safe, Reason: "leftovers"}, Path: "/tmp/a", Size: 500},
		{Rule: rules.Rule{Label: "Edge, Cache", Severity: rules.Safe}, Path: "/tmp/b", Size: 2 * core.MB},
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Clean")
	require.NoError(t, err)
	assert.Equal(t, ModeClean, m)
	assert.True(t, m.Destructive())
	assert.False(t, m.Severities().Has(rules.Aggressive))

	m, err = ParseMode("report")
	require.NoError(t, err)
	assert.False(t, m.Destructive())
	assert.True(t, m.Severities().Has(rules.Aggressive))

	assert.True(t, ModeDeep.Severities().Has(rules.Aggressive))

	_, err = ParseMode("nuke")
	assert.Error(t, err)
}

func TestPrintSortsBySeverityThenSize(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, ModeReport, sample())
	out := buf.String()

	assert.Contains(t, out, "Mode: report | Candidates: 3 | Potential space: 3.0 GB")
	iEdge := strings.Index(out, "Edge, Cache")
	iTemp := strings.Index(out, "Temp")
	iOld := strings.Index(out, "Old Windows")
	assert.Less(t, iEdge, iTemp)
	assert.Less(t, iTemp, iOld)
	assert.Contains(t, out, "  500 B  Temp")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "a b", Shorten("  a \n b ", 10))
	assert.Equal(t, "the quick…", Shorten("the quick brown fox", 12))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"Label", "Size", "Severity", "Path"}, recs[0])
	assert.Equal(t, []string{"Edge, Cache", "2097152", "safe", "/tmp/b"}, recs[3])
}

func TestExportCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sweep_report.csv")
	require.NoError(t, ExportCSV(p, sample()[:1]))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "Label,Size,Severity,Path\nOld Windows,3221225472,aggressive,C:\\Windows.old\n", string(data))

	assert.Error(t, ExportCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), nil))
}

func TestProgressAndSummary(t *testing.T) {
	c := sample()[1]
	assert.Equal(t, "✓    500 B /tmp/a", ProgressLine(clean.Progress{Candidate: c}))
	assert.Contains(t, ProgressLine(clean.Progress{Candidate: c, Outcome: clean.Failed, Err: errors.New("busy")}), "(busy)")

	var buf bytes.Buffer
	PrintSummary(&buf, clean.Report{Freed: 2 * core.MB, Deleted: 2, Canceled: true, DryRun: true})
	assert.Contains(t, buf.String(), "≈ Would free 2.0 MB")
	assert.Contains(t, buf.String(), "Cancelled")
}
