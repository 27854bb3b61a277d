// Package clean deletes candidates and records each batch in the audit log.
package clean

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/logger"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

// Outcome is what happened to one candidate.
type Outcome int

const (
	Deleted Outcome = iota
	Missing         // already gone; treated as clean
	Failed          // removal error; the batch continues
	Refused         // protected path; never touched
)

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case Missing:
		return "missing"
	case Failed:
		return "failed"
	case Refused:
		return "refused"
	}
	return "unknown"
}

// Failure records a candidate that could not be fully removed.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a batch. Freed counts the discovered size of every
// processed candidate whatever its outcome; it is not a measurement of
// bytes actually reclaimed. Candidates refused by the guard are the one
// exception: nothing is attempted, so they are neither processed nor
// counted in Freed.
type Report struct {
	Freed     int64
	Processed int
	Deleted   int
	Missing   int
	Refused   int
	Failures  []Failure
	Canceled  bool
	DryRun    bool
}

// Progress is reported after each candidate.
type Progress struct {
	Index     int // zero-based
	Total     int
	Candidate rules.Candidate
	Outcome   Outcome
	Err       error
	Freed     int64 // running total
}

// Executor deletes candidates in the order given.
type Executor struct {
	Guard    *core.Guard
	Audit    *AuditLog
	Log      *logger.Logger
	DryRun   bool
	Progress func(Progress)
}

// DeleteAll processes candidates one at a time. ctx is checked before each
// candidate; a deletion already under way is never interrupted. One audit
// entry is appended after the batch, including cancelled batches.
func (e *Executor) DeleteAll(ctx context.Context, cs []rules.Candidate) Report {
	log := e.Log
	if log == nil {
		log = logger.Nop()
	}
	rep := Report{DryRun: e.DryRun}

	for i, c := range cs {
		if ctx.Err() != nil {
			rep.Canceled = true
			log.Info("deletion cancelled",
				logger.Field{Key: "processed", Value: rep.Processed},
				logger.Field{Key: "remaining", Value: len(cs) - i})
			break
		}

		outcome, err := e.deleteOne(c)
		switch outcome {
		case Deleted:
			rep.Deleted++
		case Missing:
			rep.Missing++
		case Failed:
			rep.Failures = append(rep.Failures, Failure{Path: c.Path, Err: err})
			log.Warn("delete failed",
				logger.Field{Key: "path", Value: c.Path},
				logger.Field{Key: "error", Value: err.Error()})
		case Refused:
			rep.Refused++
			log.Warn("refused protected path", logger.Field{Key: "error", Value: err.Error()})
		}
		if outcome != Refused {
			rep.Processed++
			rep.Freed += c.Size
		}
		log.Debug("candidate processed",
			logger.Field{Key: "path", Value: c.Path},
			logger.Field{Key: "outcome", Value: outcome.String()},
			logger.Field{Key: "dry_run", Value: e.DryRun})

		if e.Progress != nil {
			e.Progress(Progress{
				Index:     i,
				Total:     len(cs),
				Candidate: c,
				Outcome:   outcome,
				Err:       err,
				Freed:     rep.Freed,
			})
		}
	}

	if !e.DryRun {
		e.Audit.Record(rep.Freed)
	}
	return rep
}

func (e *Executor) deleteOne(c rules.Candidate) (Outcome, error) {
	if err := e.Guard.Check(c.Path); err != nil {
		return Refused, err
	}

	info, err := os.Lstat(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Missing, nil
		}
		return Failed, err
	}
	if e.DryRun {
		return Deleted, nil
	}

	if info.IsDir() {
		err = removeTree(c.Path)
	} else {
		err = os.Remove(c.Path)
	}
	switch {
	case err == nil:
		return Deleted, nil
	case errors.Is(err, fs.ErrNotExist):
		return Missing, nil
	default:
		return Failed, err
	}
}

// removeTree removes dir and everything under it, as far as possible.
// Read-only entries (common on Windows) are made writable and retried once.
func removeTree(dir string) error {
	err := os.RemoveAll(dir)
	if err == nil {
		return nil
	}
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		mode := os.FileMode(0o666)
		if d.IsDir() {
			mode = 0o755
		}
		_ = os.Chmod(p, mode)
		return nil
	})
	return os.RemoveAll(dir)
}

// NeedsElevation returns the candidates that live under systemRoot, which
// usually cannot be removed without administrator rights.
func NeedsElevation(cs []rules.Candidate, systemRoot string) []rules.Candidate {
	var out []rules.Candidate
	for _, c := range cs {
		if core.Within(systemRoot, c.Path) {
			out = append(out, c)
		}
	}
	return out
}
