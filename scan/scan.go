// Package scan enumerates the (a,b) side of the search: a = 5i, b = 5j with
// j ≤ i, restricted to the residue classes a primitive solution admits, and
// matches a⁴+b⁴ against the candidate-difference index.
//
// The scan is data-parallel over the outer index i. Workers share the index
// and the candidate list read-only; solutions go through a mutex-guarded
// collector. The first confirmed solution cancels the group, but every
// solution observed before shutdown is reported.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/quartic/diff"
	"github.com/hupe1980/quartic/index"
	"github.com/hupe1980/quartic/internal/uint128"
)

// Solution is a verified quadruple a⁴ + b⁴ + c⁴ = d⁴.
type Solution struct {
	A uint32
	B uint32
	C uint32
	D uint32
}

// String renders the equation with literal values.
func (s Solution) String() string {
	return fmt.Sprintf("%d^4 + %d^4 + %d^4 = %d^4", s.A, s.B, s.C, s.D)
}

// errFound cancels the worker group once a solution is confirmed; it never
// escapes Run.
var errFound = errors.New("scan: solution found")

// Options configures a Scanner.
type Options struct {
	// Workers is the parallel fan-out. Defaults to GOMAXPROCS.
	Workers int

	// Logger receives throttled progress lines. Defaults to slog.Default().
	Logger *slog.Logger

	// HaltOnFirst stops the scan once any solution is confirmed.
	// The exhaustive mode exists for test runs over tiny bounds.
	HaltOnFirst bool

	// OnSolution, when set, receives each solution as it is confirmed,
	// before Run returns. Called from worker goroutines under the
	// collector lock; keep it fast.
	OnSolution func(Solution)
}

// Scanner matches pairwise fourth-power sums against a built index.
type Scanner struct {
	maxD       uint32
	idx        *index.Index
	candidates []diff.Candidate
	opts       Options
}

// New creates a Scanner over [5, maxD] against the given index and
// candidate list.
func New(maxD uint32, ix *index.Index, candidates []diff.Candidate, optFns ...func(o *Options)) *Scanner {
	opts := Options{
		Workers:     runtime.GOMAXPROCS(0),
		Logger:      slog.Default(),
		HaltOnFirst: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Scanner{maxD: maxD, idx: ix, candidates: candidates, opts: opts}
}

// jOffsets lists the admissible j residues mod 8 for each i residue: the
// Ward offset pairs (0,0),(5,0),(0,5),(3,0),(0,3) arranged per row. Rows
// without entries are skipped entirely.
var jOffsets = [8][]uint32{
	0: {0, 3, 5},
	3: {0},
	5: {0},
}

// Run scans all admissible (i,j) and returns every confirmed solution.
// A worker that confirms a solution cancels the group; dispatched outer
// rows finish their checkpointed iteration before yielding.
func (s *Scanner) Run(ctx context.Context) ([]Solution, error) {
	n := s.maxD / 5
	pow4 := make([]uint64, n+1)
	for i := uint64(0); i <= uint64(n); i++ {
		sq := i * i
		pow4[i] = sq * sq // wraps for large bounds; confirmation is exact
	}

	var (
		mu        sync.Mutex
		solutions []Solution
	)
	publish := func(sol Solution) {
		mu.Lock()
		solutions = append(solutions, sol)
		if s.opts.OnSolution != nil {
			s.opts.OnSolution(sol)
		}
		mu.Unlock()
		s.opts.Logger.Info("solution confirmed",
			"a", sol.A, "b", sol.B, "c", sol.C, "d", sol.D)
	}

	progress := rate.NewLimiter(1, 1)

	g, ctx := errgroup.WithContext(ctx)
	workers := s.opts.Workers
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := uint32(w) + 1; i <= n; i += uint32(workers) {
				if err := ctx.Err(); err != nil {
					return err
				}
				offsets := jOffsets[i%8]
				if len(offsets) == 0 {
					continue
				}
				if progress.Allow() {
					s.opts.Logger.Debug("scan progress", "i", i, "of", n)
				}
				for _, r := range offsets {
					start := r
					if start == 0 {
						start = 8
					}
					for j := start; j <= i; j += 8 {
						sum := pow4[i] + pow4[j]
						if s.idx.Contains(sum) {
							if sol, ok := s.confirm(i, j); ok {
								publish(sol)
								if s.opts.HaltOnFirst {
									return errFound
								}
							}
						}
					}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, errFound) {
		// A cancelled sibling is how halt-on-first propagates; a caller
		// cancellation with no solutions is a real interruption.
		if len(solutions) == 0 {
			return nil, err
		}
	}
	return solutions, nil
}

// confirm recomputes a⁴+b⁴ exactly and looks for it in the candidate list.
// Index positives that fail here were filter or truncation collisions.
func (s *Scanner) confirm(i, j uint32) (Solution, bool) {
	a, b := 5*i, 5*j
	sum := uint128.Pow4(uint64(a)).Add(uint128.Pow4(uint64(b)))
	for _, cand := range s.candidates {
		if cand.Diff.Eq(sum) {
			return Solution{A: a, B: b, C: cand.C, D: cand.D}, true
		}
	}
	return Solution{}, false
}
