// Package batch runs one pass over the seeds and keys files and writes the
// result files.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

// Checker classifies a single input line. ok is false for lines that
// produce no outcome.
type Checker interface {
	Source() core.SourceKind
	Check(ctx context.Context, line string) (out core.Outcome, ok bool, err error)
}

// Recorder receives every outcome of a run. Recorder failures are logged
// and never stop the batch.
type Recorder interface {
	BeginRun(ctx context.Context, runID string, at time.Time) error
	Record(ctx context.Context, runID string, seq int, o core.Outcome) error
	FinishRun(ctx context.Context, runID string, t core.Totals, at time.Time) error
}

// Summary describes what a run did.
type Summary struct {
	RunID string
	core.Totals

	// Created lists the input files scaffolded on this run. When non-empty
	// the run halted before reading any input.
	Created []string
	Halted  bool
	// Nothing is set when both input files held no entries.
	Nothing bool
}

type Runner struct {
	cfg   core.Config
	seeds Checker
	keys  Checker

	pacer    Pacer
	out      io.Writer
	recorder Recorder
	newRunID func() string
}

type Option func(*Runner)

func WithPacer(p Pacer) Option { return func(r *Runner) { r.pacer = p } }

func WithOutput(w io.Writer) Option { return func(r *Runner) { r.out = w } }

func WithRecorder(rec Recorder) Option { return func(r *Runner) { r.recorder = rec } }

func WithRunID(fn func() string) Option { return func(r *Runner) { r.newRunID = fn } }

// New builds a runner. Without options it paces at cfg.Throttle and
// prints to stdout.
func New(cfg core.Config, seeds, keys Checker, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		seeds:    seeds,
		keys:     keys,
		pacer:    NewPacer(cfg.Throttle),
		out:      os.Stdout,
		newRunID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one batch. Only setup and output failures are returned; a
// failure on one item is recorded as an ERROR outcome.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	// 1. Scaffold inputs; a freshly created file means the operator has
	// to fill it in first.
	created, err := EnsureLayout(r.cfg)
	if err != nil {
		return sum, err
	}
	if len(created) > 0 {
		for _, p := range created {
			fmt.Fprintf(r.out, "Created %s - please add your %s and rerun.\n", p, describe(p, r.cfg))
		}
		sum.Created = created
		sum.Halted = true
		return sum, nil
	}

	// 2. Read both lists
	seeds, err := readEntries(r.cfg.SeedsFile)
	if err != nil {
		return sum, err
	}
	keys, err := readEntries(r.cfg.KeysFile)
	if err != nil {
		return sum, err
	}
	if len(seeds) == 0 && len(keys) == 0 {
		fmt.Fprintf(r.out, "No seed phrases or private keys found in %s.\n", r.cfg.PhrasesDir)
		sum.Nothing = true
		return sum, nil
	}

	sum.RunID = r.newRunID()
	r.beginRun(ctx, sum.RunID)

	// 3. Check seeds, then keys, one at a time
	var all, hits []string
	seq := 0
	for _, pass := range []struct {
		label   string
		checker Checker
		lines   []string
	}{
		{"seed phrases", r.seeds, seeds},
		{"private keys", r.keys, keys},
	} {
		fmt.Fprintf(r.out, "Checking %d %s...\n", len(pass.lines), pass.label)
		for _, line := range pass.lines {
			o, ok := r.checkOne(ctx, pass.checker, line)
			if ok {
				text := o.String()
				all = append(all, text)
				if o.IsHit() {
					hits = append(hits, text)
				}
				fmt.Fprintln(r.out, text)
				sum.Add(o)
				r.record(ctx, sum.RunID, seq, o)
				seq++
			}
			if err := r.pacer.Wait(ctx); err != nil {
				return sum, fmt.Errorf("pause between items: %w", err)
			}
		}
	}

	// 4. Replace previous results
	if err := writeLines(r.cfg.AllResultsFile, all); err != nil {
		return sum, err
	}
	if err := writeLines(r.cfg.HitsFile, hits); err != nil {
		return sum, err
	}

	fmt.Fprintf(r.out, "Done. Results in '%s' folder.\n", r.cfg.ResultsDir)
	if sum.Hits > 0 {
		fmt.Fprintf(r.out, "Found %d hits! See %s.\n", sum.Hits, r.cfg.HitsFile)
	}

	r.finishRun(ctx, sum)
	return sum, nil
}

// checkOne classifies one line, turning unexpected errors and panics into
// an ERROR outcome.
func (r *Runner) checkOne(ctx context.Context, c Checker, line string) (out core.Outcome, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			out, ok = core.Unexpected(c.Source(), line, fmt.Sprint(p)), true
		}
	}()

	o, found, err := c.Check(ctx, line)
	if err != nil {
		return core.Unexpected(c.Source(), line, err.Error()), true
	}
	return o, found
}

func (r *Runner) beginRun(ctx context.Context, runID string) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.BeginRun(ctx, runID, time.Now()); err != nil {
		log.Printf("⚠️ [LEDGER] begin run %s: %v", runID, err)
	}
}

func (r *Runner) record(ctx context.Context, runID string, seq int, o core.Outcome) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, runID, seq, o); err != nil {
		log.Printf("⚠️ [LEDGER] record %s/%d: %v", runID, seq, err)
	}
}

func (r *Runner) finishRun(ctx context.Context, sum Summary) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.FinishRun(ctx, sum.RunID, sum.Totals, time.Now()); err != nil {
		log.Printf("⚠️ [LEDGER] finish run %s: %v", sum.RunID, err)
	}
}

func describe(path string, cfg core.Config) string {
	if path == cfg.KeysFile {
		return "private keys"
	}
	return "seed phrases"
}
