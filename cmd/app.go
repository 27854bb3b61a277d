package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/collect"
	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/logger"
	"github.com/lakshaymaurya-felt/sweeper/internal/metrics"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// app holds everything a command needs, built once per invocation.
type app struct {
	settings  *config.Settings
	log       *logger.Logger
	roots     config.PathRoots
	guard     *core.Guard
	store     rules.Store
	audit     *clean.AuditLog
	collector *collect.Collector
	metrics   *metrics.Metrics
}

func newApp(flags *pflag.FlagSet) (*app, error) {
	v := config.NewViper()
	if err := v.BindPFlag("rules_file", flags.Lookup("rules")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("workers", flags.Lookup("workers")); err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(v, configFile)
	if err != nil {
		return nil, err
	}
	if debug {
		settings.Log.Level = "debug"
	}

	base, err := logger.New(logger.Config{
		Level:      settings.Log.Level,
		Format:     settings.Log.Format,
		Output:     settings.Log.Output,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, err
	}
	log := base.With(logger.Field{Key: "run_id", Value: uuid.NewString()})

	roots, err := config.DiscoverRoots()
	if err != nil {
		log.Warn("root discovery incomplete", logger.Field{Key: "error", Value: err.Error()})
	}
	roots = roots.WithOverrides(settings.Roots)
	log.Debug("roots resolved",
		logger.Field{Key: "local", Value: roots.Local},
		logger.Field{Key: "system", Value: roots.System},
		logger.Field{Key: "home", Value: roots.Home})

	guard := core.NewGuard(config.NeverDeletePaths(roots), settings.Whitelist)
	return &app{
		settings: settings,
		log:      log,
		roots:    roots,
		guard:    guard,
		store:    rules.Store{Path: settings.RulesFile, Roots: roots, Log: log},
		audit:    clean.NewAuditLog(settings.AuditLogPath(roots), config.SystemClock{}, log),
		collector: collect.New(collect.Options{
			Guard:   guard,
			Workers: settings.Workers,
			Log:     log,
		}),
		metrics: metrics.New(),
	}, nil
}

// discover loads the rule set and collects candidates of the included
// severities that are at least minSize bytes.
func (a *app) discover(ctx context.Context, include rules.SeveritySet, minSize int64) []rules.Candidate {
	rs := a.store.Load()
	start := time.Now()
	cs := a.collector.Collect(ctx, rs, include)
	if minSize > 0 {
		cs = collect.Filter(cs, func(c rules.Candidate) bool { return c.Size >= minSize })
	}
	a.metrics.RecordScan(cs, time.Since(start), a.collector.Walker().ScannedCount())

	for _, w := range a.collector.Walker().Warnings() {
		a.log.Debug("scan warning", logger.Field{Key: "detail", Value: w})
	}
	a.log.Info("discovery finished",
		logger.Field{Key: "rules", Value: len(rs)},
		logger.Field{Key: "candidates", Value: len(cs)},
		logger.Field{Key: "bytes", Value: collect.TotalSize(cs)})
	return cs
}

func (a *app) executor(dryRun bool) *clean.Executor {
	return &clean.Executor{
		Guard:  a.guard,
		Audit:  a.audit,
		Log:    a.log,
		DryRun: dryRun,
	}
}

// finish writes the metrics textfile when configured and closes the log.
func (a *app) finish() error {
	defer a.log.Close()
	if a.settings.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.settings.MetricsFile, time.Now()); err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	return nil
}
