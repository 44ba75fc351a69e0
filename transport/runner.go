package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/phil-mansfield/gocollide/estimator"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
	"golang.org/x/sync/errgroup"
)

// Summary describes a finished run.
type Summary struct {
	Histories       uint64
	Workers         int
	Elapsed         time.Duration
	Trials, Samples uint64
}

// Efficiency returns the fraction of rejection sampling trials which were
// accepted, or 1 if there were none.
func (s *Summary) Efficiency() float64 {
	if s.Trials == 0 {
		return 1
	}
	return float64(s.Samples) / float64(s.Trials)
}

// Runner runs histories of a problem in parallel. Each worker owns a
// random number context, a bank and a fork of the handler, and merges its
// fork into the handler when it finishes.
type Runner struct {
	problem *Problem
	handler *estimator.Handler
	workers int
	seed    uint64
	logger  *log.Logger
}

func NewRunner(
	problem *Problem, handler *estimator.Handler,
	workers int, seed uint64, logger *log.Logger,
) (*Runner, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	} else if workers < 1 {
		return nil, fmt.Errorf("transport: need at least one worker, got %d", workers)
	}
	return &Runner{problem, handler, workers, seed, logger}, nil
}

// Run simulates histories [0, histories). History n is run by worker
// n % workers and always uses the random number stream of history n, so the
// scores do not depend on the number of workers beyond the order of
// floating point sums.
//
// If ctx is cancelled, workers stop between histories and the histories
// they completed are still merged into the handler.
func (r *Runner) Run(ctx context.Context, histories uint64) (*Summary, error) {
	start := time.Now()
	sum := &Summary{Workers: r.workers}
	var mu sync.Mutex

	r.logger.Info("Starting run",
		"histories", histories, "workers", r.workers, "seed", r.seed,
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.workers; w++ {
		g.Go(func() error {
			h := r.handler.Fork()
			rng := rand.NewContext(r.seed)
			bank := particle.NewBank()

			done := uint64(0)
			var err error
			for n := uint64(w); n < histories; n += uint64(r.workers) {
				if err = gctx.Err(); err != nil {
					break
				}
				if err = r.problem.RunHistory(n, rng, bank, h); err != nil {
					err = fmt.Errorf("history %d: %w", n, err)
					break
				}
				done++
			}

			mu.Lock()
			defer mu.Unlock()
			if mergeErr := r.handler.Merge(h); mergeErr != nil {
				return mergeErr
			}
			trials, samples := rng.Trials()
			sum.Histories += done
			sum.Trials += trials
			sum.Samples += samples

			r.logger.Debug("Worker finished", "worker", w, "histories", done)
			return err
		})
	}

	err := g.Wait()
	sum.Elapsed = time.Since(start)
	if err != nil {
		r.logger.Error("Run stopped", "histories", sum.Histories, "err", err)
		return sum, err
	}
	r.logger.Info("Run finished",
		"histories", sum.Histories, "elapsed", sum.Elapsed,
		"efficiency", sum.Efficiency(),
	)
	return sum, nil
}
