// Package metrics exposes sweep results as Prometheus metrics, written to a
// node-exporter textfile after each command.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

const namespace = "sweeper"

type Metrics struct {
	registry       *prometheus.Registry
	candidates     *prometheus.GaugeVec
	candidateBytes *prometheus.GaugeVec
	scanDuration   prometheus.Gauge
	scannedEntries prometheus.Gauge
	deletions      *prometheus.CounterVec
	freedBytes     prometheus.Gauge
	lastRun        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidates",
				Help:      "Number of deletion candidates found, by severity",
			},
			[]string{"severity"},
		),
		candidateBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidate_bytes",
				Help:      "Reclaimable bytes found, by severity",
			},
			[]string{"severity"},
		),
		scanDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Wall time of the last discovery run",
			},
		),
		scannedEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scanned_entries",
				Help:      "Filesystem entries visited by the last discovery run",
			},
		),
		deletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletions_total",
				Help:      "Candidates processed by the executor, by outcome",
			},
			[]string{"outcome"},
		),
		freedBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "freed_bytes",
				Help:      "Bytes reported freed by the last deletion batch",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last run",
			},
		),
	}

	m.registry.MustRegister(
		m.candidates,
		m.candidateBytes,
		m.scanDuration,
		m.scannedEntries,
		m.deletions,
		m.freedBytes,
		m.lastRun,
	)

	for _, s := range rules.AllSeverities() {
		m.candidates.WithLabelValues(s.String())
		m.candidateBytes.WithLabelValues(s.String())
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordScan sets the candidate gauges from a discovery result.
func (m *Metrics) RecordScan(cs []rules.Candidate, took time.Duration, scanned int64) {
	m.candidates.Reset()
	m.candidateBytes.Reset()
	for _, s := range rules.AllSeverities() {
		m.candidates.WithLabelValues(s.String()).Set(0)
		m.candidateBytes.WithLabelValues(s.String()).Set(0)
	}
	for _, c := range cs {
		sev := c.Rule.Severity.String()
		m.candidates.WithLabelValues(sev).Inc()
		m.candidateBytes.WithLabelValues(sev).Add(float64(c.Size))
	}
	m.scanDuration.Set(took.Seconds())
	m.scannedEntries.Set(float64(scanned))
}

// RecordDeletion adds the outcome counts of a batch.
func (m *Metrics) RecordDeletion(rep clean.Report) {
	m.deletions.WithLabelValues(clean.Deleted.String()).Add(float64(rep.Deleted))
	m.deletions.WithLabelValues(clean.Missing.String()).Add(float64(rep.Missing))
	m.deletions.WithLabelValues(clean.Failed.String()).Add(float64(len(rep.Failures)))
	m.deletions.WithLabelValues(clean.Refused.String()).Add(float64(rep.Refused))
	m.freedBytes.Set(float64(rep.Freed))
}

// WriteTextfile stamps the run time and writes every metric to path in the
// Prometheus text format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string, now time.Time) error {
	m.lastRun.Set(float64(now.Unix()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
