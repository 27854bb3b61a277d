// Package collect turns rules into sized deletion candidates.
package collect

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/logger"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
	"github.com/lakshaymaurya-felt/sweeper/internal/scan"
)

// Options configures a Collector. The zero value is usable.
type Options struct {
	// Clock supplies "now" for age cutoffs. Defaults to the system clock.
	Clock config.Clock

	// Guard skips protected paths before they are sized. Nil allows all.
	Guard *core.Guard

	// Workers bounds concurrent size walks. Values below 2 walk sequentially.
	Workers int

	// Walker is shared across walks so callers can poll ScannedCount.
	Walker *scan.Walker

	Log *logger.Logger
}

// Collector runs discovery for a rule set.
type Collector struct {
	clock   config.Clock
	guard   *core.Guard
	workers int
	walker  *scan.Walker
	log     *logger.Logger
}

// New creates a Collector, filling in defaults for unset options.
func New(opts Options) *Collector {
	c := &Collector{
		clock:   opts.Clock,
		guard:   opts.Guard,
		workers: opts.Workers,
		walker:  opts.Walker,
		log:     opts.Log,
	}
	if c.clock == nil {
		c.clock = config.SystemClock{}
	}
	if c.walker == nil {
		c.walker = scan.NewWalker()
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	return c
}

// Collect runs a default Collector.
func Collect(ctx context.Context, rs []rules.Rule, include rules.SeveritySet) []rules.Candidate {
	return New(Options{}).Collect(ctx, rs, include)
}

// Walker returns the walker used for size computation.
func (c *Collector) Walker() *scan.Walker { return c.walker }

// job is one (rule, path) pair waiting to be sized.
type job struct {
	rule   int
	path   string
	cutoff time.Time
	size   int64
	done   bool
}

// Collect returns one candidate per enumerated path of every rule whose
// severity is in include and whose size reaches the rule's MinSize.
// Candidates keep rule order, then path order. If ctx is cancelled, the
// candidates sized so far are returned.
func (c *Collector) Collect(ctx context.Context, rs []rules.Rule, include rules.SeveritySet) []rules.Candidate {
	jobs := c.plan(ctx, rs, include)

	if c.workers > 1 {
		c.sizeParallel(ctx, jobs)
	} else {
		c.sizeSequential(ctx, jobs)
	}

	var found []rules.Candidate
	for _, j := range jobs {
		if !j.done {
			continue
		}
		r := rs[j.rule]
		if j.size >= r.MinSize {
			found = append(found, rules.Candidate{Rule: r, Path: j.path, Size: j.size})
		}
	}

	c.log.Debug("collection finished",
		logger.Field{Key: "paths", Value: len(jobs)},
		logger.Field{Key: "candidates", Value: len(found)},
		logger.Field{Key: "scanned", Value: c.walker.ScannedCount()})
	return found
}

// plan enumerates every path to size. The cutoff is computed once per rule.
func (c *Collector) plan(ctx context.Context, rs []rules.Rule, include rules.SeveritySet) []job {
	var jobs []job
	for i, r := range rs {
		if !include.Has(r.Severity) {
			continue
		}
		cutoff := r.Cutoff(c.clock.Now())
		for p := range paths(r.Path) {
			if ctx.Err() != nil {
				return jobs
			}
			if err := c.guard.Check(p); err != nil {
				c.log.Debug("skipping protected path",
					logger.Field{Key: "rule", Value: r.Label},
					logger.Field{Key: "error", Value: err.Error()})
				continue
			}
			jobs = append(jobs, job{rule: i, path: p, cutoff: cutoff})
		}
	}
	return jobs
}

func (c *Collector) sizeSequential(ctx context.Context, jobs []job) {
	for i := range jobs {
		if ctx.Err() != nil {
			return
		}
		jobs[i].size = c.walker.Size(jobs[i].path, jobs[i].cutoff)
		jobs[i].done = true
	}
}

// sizeParallel walks up to c.workers paths at once. Each job owns its
// result slot, so no accumulator is shared.
func (c *Collector) sizeParallel(ctx context.Context, jobs []job) {
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i := range jobs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}
		wg.Add(1)
		go func(j *job) {
			defer wg.Done()
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			j.size = c.walker.Size(j.path, j.cutoff)
			j.done = true
		}(&jobs[i])
	}
	wg.Wait()
}

// SeverityRank is the canonical ordering key: safe=0, moderate=1, aggressive=2.
func SeverityRank(s rules.Severity) int { return s.Rank() }

// SortCandidates orders by severity rank, then size descending.
func SortCandidates(cs []rules.Candidate) {
	slices.SortStableFunc(cs, func(a, b rules.Candidate) int {
		if ra, rb := SeverityRank(a.Rule.Severity), SeverityRank(b.Rule.Severity); ra != rb {
			return ra - rb
		}
		switch {
		case a.Size > b.Size:
			return -1
		case a.Size < b.Size:
			return 1
		}
		return 0
	})
}

// TotalSize sums candidate sizes.
func TotalSize(cs []rules.Candidate) int64 {
	var total int64
	for _, c := range cs {
		total += c.Size
	}
	return total
}

// Filter returns candidates for which keep reports true, preserving order.
func Filter(cs []rules.Candidate, keep func(rules.Candidate) bool) []rules.Candidate {
	var out []rules.Candidate
	for _, c := range cs {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
