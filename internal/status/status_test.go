package status

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/config"
)

func fakeCollector(t *testing.T, fail map[string]bool) *Collector {
	t.Helper()
	base := t.TempDir()
	logPath := filepath.Join(base, "sweeps.log")
	require.NoError(t, os.WriteFile(logPath, []byte("2024-01-01 10:00 – freed 1.0 MB\n"), 0o644))

	return &Collector{
		Roots: config.PathRoots{Local: "/c/local", System: "/c/windows", Home: "/d/home"},
		Audit: clean.NewAuditLog(logPath, nil, nil),
		Mount: func(_ context.Context, p string) string { return "/" + strings.Split(p, "/")[1] },
		Usage: func(_ context.Context, mount string) (*disk.UsageStat, error) {
			if fail[mount] {
				return nil, errors.New("no such volume")
			}
			return &disk.UsageStat{Path: mount, Total: 1000, Used: 750, Free: 250, UsedPercent: 75}, nil
		},
	}
}

func TestCollectMetricsGroupsRootsByVolume(t *testing.T) {
	snap, err := fakeCollector(t, nil).CollectMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Volumes, 2)
	assert.Equal(t, "/c", snap.Volumes[0].Mount)
	assert.Equal(t, []string{"local", "system"}, snap.Volumes[0].Roots)
	assert.Equal(t, []string{"home"}, snap.Volumes[1].Roots)
	assert.Equal(t, []string{"2024-01-01 10:00 – freed 1.0 MB"}, snap.Recent)
	assert.NotEmpty(t, snap.Platform)
}

func TestCollectMetricsPartialFailure(t *testing.T) {
	snap, err := fakeCollector(t, map[string]bool{"/d": true}).CollectMetrics(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Volumes, 1)

	_, err = fakeCollector(t, map[string]bool{"/c": true, "/d": true}).CollectMetrics(context.Background())
	assert.Error(t, err)
}

func TestStatusModelUpdate(t *testing.T) {
	c := fakeCollector(t, nil)
	m := NewStatusModel(c, time.Second)
	assert.Contains(t, m.View(), "Collecting metrics")

	snap, err := c.CollectMetrics(context.Background())
	require.NoError(t, err)
	next, cmd := m.Update(metricsMsg{snap: snap})
	m = next.(StatusModel)
	assert.NotNil(t, cmd)
	assert.Len(t, m.FreeHistory["/c"], 1)
	assert.Contains(t, m.View(), "250 B free of 1,000 B")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, "", next.(StatusModel).View())
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPrintStatic(t *testing.T) {
	snap, err := fakeCollector(t, nil).CollectMetrics(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintStatic(&buf, snap)
	out := buf.String()
	assert.Contains(t, out, "75.0% used")
	assert.Contains(t, out, "(local, system)")
	assert.Contains(t, out, "freed 1.0 MB")
}

func TestColorBarAndSparklineWidths(t *testing.T) {
	assert.Equal(t, 10, strings.Count(stripANSI(colorBar(150, 10)), "█"))
	assert.Equal(t, 10, len([]rune(stripANSI(sparkline([]float64{1, 2, 3}, 10)))))
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
