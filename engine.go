package quartic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/hupe1980/quartic/blobstore"
	"github.com/hupe1980/quartic/codec"
	"github.com/hupe1980/quartic/diff"
	"github.com/hupe1980/quartic/index"
	"github.com/hupe1980/quartic/scan"
	"github.com/hupe1980/quartic/snapshot"
)

// Stage names reported through the task callback.
const (
	StageDifferences = "Compute differences"
	StagePopulate    = "Populate filter and hash map"
	StageScan        = "Check pairwise sums"
)

// ErrInvalidBound is returned by New when maxD is unusable.
var ErrInvalidBound = errors.New("quartic: invalid search bound")

// WorkersEnv overrides the scan fan-out when set to a positive integer.
const WorkersEnv = "QUARTIC_WORKERS"

// Solution is re-exported for callers that never import the scan package.
type Solution = scan.Solution

// Result carries everything a finished run observed.
type Result struct {
	// Solutions holds every confirmed quadruple, in discovery order per
	// worker. Empty means the bound hides no solution reachable by the
	// residue classes searched.
	Solutions []Solution

	// GoodPairs and Candidates describe the generation phase.
	GoodPairs  int
	Candidates int

	// SnapshotReused is true when the candidate list came from a stored
	// snapshot instead of a fresh generation.
	SnapshotReused bool
}

// Engine runs the three search phases against a fixed bound.
type Engine struct {
	maxD uint32
	opts options
}

// New validates the bound and prepares an engine. Validation happens
// before any table is allocated.
func New(maxD uint32, optFns ...Option) (*Engine, error) {
	opts := options{
		logger:      NewLogger(nil),
		filterBits:  index.DefaultFilterBits,
		haltOnFirst: true,
		codec:       codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if maxD == 0 {
		return nil, fmt.Errorf("%w: bound is zero", ErrInvalidBound)
	}
	if maxD > diff.MaxBound {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidBound, maxD, diff.MaxBound)
	}

	return &Engine{maxD: maxD, opts: opts}, nil
}

// Workers resolves the scan fan-out: the environment override wins, then
// the option, then one worker per logical CPU.
func (e *Engine) Workers() int {
	if v := os.Getenv(WorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		e.opts.logger.Warn("ignoring invalid worker override", "env", WorkersEnv, "value", v)
	}
	if e.opts.workers > 0 {
		return e.opts.workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run executes generation, index build and scan. The context cancels the
// scan at its cooperative checkpoints; generation and index build are
// comparatively short and run to completion once started.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	log := e.opts.logger
	t := newTimer(e.opts.onTask)
	result := &Result{}

	candidates, stats, reused, err := e.loadOrGenerate(ctx)
	if err != nil {
		return nil, err
	}
	result.GoodPairs = stats.GoodPairs
	result.Candidates = len(candidates)
	result.SnapshotReused = reused
	t.logTask(StageDifferences)

	ix, err := e.buildIndex(candidates)
	if err != nil {
		return nil, err
	}
	defer ix.Close()
	t.logTask(StagePopulate)

	workers := e.Workers()
	log.Info("scanning pairwise sums", "workers", workers, "candidates", len(candidates))
	scanner := scan.New(e.maxD, ix, candidates, func(o *scan.Options) {
		o.Workers = workers
		o.Logger = log.Logger
		o.HaltOnFirst = e.opts.haltOnFirst
		o.OnSolution = e.opts.onSolution
	})
	solutions, err := scanner.Run(ctx)
	if err != nil {
		return nil, err
	}
	result.Solutions = solutions
	t.logTask(StageScan)

	return result, nil
}

// loadOrGenerate reuses a stored snapshot when one matches the bound,
// otherwise generates and, if a store is configured, persists the result.
func (e *Engine) loadOrGenerate(ctx context.Context) ([]diff.Candidate, diff.Stats, bool, error) {
	log := e.opts.logger
	store := e.opts.snapshotStore
	name := snapshot.Name(e.maxD)

	if store != nil {
		maxD, candidates, err := snapshot.Read(ctx, store, name)
		switch {
		case err == nil && maxD == e.maxD:
			log.Info("snapshot reused", "name", name, "candidates", len(candidates))
			return candidates, diff.Stats{Candidates: len(candidates)}, true, nil
		case err == nil:
			log.Warn("snapshot bound mismatch, regenerating", "name", name, "got", maxD)
		case errors.Is(err, blobstore.ErrNotFound):
			// First run against this store.
		default:
			log.Warn("snapshot unreadable, regenerating", "name", name, "error", err)
		}
	}

	candidates, stats, err := diff.Generate(e.maxD, func(o *diff.Options) {
		o.Logger = e.opts.logger.Logger
	})
	if err != nil {
		return nil, diff.Stats{}, false, err
	}

	if store != nil {
		if err := snapshot.Write(ctx, store, name, e.maxD, candidates, e.opts.codec); err != nil {
			// Persisting is an optimisation; the run continues without it.
			log.Warn("snapshot write failed", "name", name, "error", err)
		} else {
			log.Info("snapshot written", "name", name, "candidates", len(candidates))
		}
	}
	return candidates, stats, false, nil
}

// buildIndex sizes the table for the actual key count and inserts every
// compressed difference.
func (e *Engine) buildIndex(candidates []diff.Candidate) (*index.Index, error) {
	hashBits := e.opts.hashBits
	if hashBits == 0 {
		hashBits = index.HashBitsFor(len(candidates))
	}

	ix, err := index.New(e.opts.filterBits, hashBits)
	if err != nil {
		return nil, err
	}
	for _, cand := range candidates {
		// 625 divides every stored difference; dividing keeps keys dense
		// and matches the scan's i⁴+j⁴ query with a = 5i, b = 5j.
		key, _ := cand.Diff.Div64(625)
		if err := ix.Insert(key.Lo); err != nil {
			ix.Close()
			return nil, fmt.Errorf("quartic: index build: %w", err)
		}
	}
	return ix, nil
}
