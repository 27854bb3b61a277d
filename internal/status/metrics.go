package status

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
)

// VolumeMetrics is the usage of one volume holding a sweep root.
type VolumeMetrics struct {
	Mount       string   `json:"mount"`
	Roots       []string `json:"roots"` // which roots live here: local, system, home
	Total       uint64   `json:"total"`
	Used        uint64   `json:"used"`
	Free        uint64   `json:"free"`
	UsedPercent float64  `json:"used_percent"`
}

// Snapshot is everything the status view shows.
type Snapshot struct {
	Platform string          `json:"platform"`
	Elevated bool            `json:"elevated"`
	Volumes  []VolumeMetrics `json:"volumes"`
	Recent   []string        `json:"recent"` // latest audit log lines, oldest first
	AuditLog string          `json:"audit_log"`
}

// Collector gathers snapshots. Usage is injectable for tests.
type Collector struct {
	Roots config.PathRoots
	Audit *clean.AuditLog
	Usage func(ctx context.Context, path string) (*disk.UsageStat, error)
	Mount func(ctx context.Context, path string) string
}

// NewCollector returns a collector backed by gopsutil.
func NewCollector(roots config.PathRoots, audit *clean.AuditLog) *Collector {
	return &Collector{
		Roots: roots,
		Audit: audit,
		Usage: disk.UsageWithContext,
		Mount: mountPoint,
	}
}

// CollectMetrics builds a snapshot. A volume that cannot be queried is
// reported as an error only when no volume could be read at all.
func (c *Collector) CollectMetrics(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Platform: core.PlatformString(ctx),
		Elevated: config.IsElevated(),
	}

	named := []struct{ name, path string }{
		{"local", c.Roots.Local},
		{"system", c.Roots.System},
		{"home", c.Roots.Home},
	}

	byMount := map[string]int{}
	var firstErr error
	for _, r := range named {
		if r.path == "" {
			continue
		}
		mount := c.Mount(ctx, r.path)
		if i, ok := byMount[mount]; ok {
			snap.Volumes[i].Roots = append(snap.Volumes[i].Roots, r.name)
			continue
		}
		u, err := c.Usage(ctx, mount)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("disk usage of %s: %w", mount, err)
			}
			continue
		}
		byMount[mount] = len(snap.Volumes)
		snap.Volumes = append(snap.Volumes, VolumeMetrics{
			Mount:       mount,
			Roots:       []string{r.name},
			Total:       u.Total,
			Used:        u.Used,
			Free:        u.Free,
			UsedPercent: u.UsedPercent,
		})
	}
	if len(snap.Volumes) == 0 && firstErr != nil {
		return nil, firstErr
	}

	if c.Audit != nil {
		snap.AuditLog = c.Audit.Path()
		recent, err := c.Audit.Recent(5)
		if err == nil {
			snap.Recent = recent
		}
	}
	return snap, nil
}

// mountPoint returns the longest partition mountpoint containing path, or
// the volume root of path when partitions cannot be listed.
func mountPoint(ctx context.Context, path string) string {
	fallback := filepath.VolumeName(path) + string(filepath.Separator)

	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return fallback
	}
	best := ""
	for _, p := range parts {
		if core.Within(p.Mountpoint, path) && len(p.Mountpoint) > len(best) {
			best = p.Mountpoint
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

// rootsLabel renders "local, home".
func (v VolumeMetrics) rootsLabel() string {
	return strings.Join(v.Roots, ", ")
}
