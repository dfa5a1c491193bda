package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/pkg/metrics"
)

// Accumulator collects batch results across workers. It replaces any shared
// process-wide counters: the caller owns it and reads it after Run returns.
type Accumulator struct {
	mu        sync.Mutex
	scores    []entity.PageQualityScore
	skipped   int
	failed    int
	lastError error
}

func (a *Accumulator) addScore(s entity.PageQualityScore) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scores = append(a.scores, s)
}

func (a *Accumulator) addSkipped() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skipped++
}

func (a *Accumulator) addFailure(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failed++
	a.lastError = err
}

// Scores returns the per-page quality scores of completed comparisons.
func (a *Accumulator) Scores() []entity.PageQualityScore {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.PageQualityScore(nil), a.scores...)
}

// Completed is the number of page pairs fully compared and reported.
func (a *Accumulator) Completed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.scores)
}

// Skipped is the number of pairs served from the result cache.
func (a *Accumulator) Skipped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skipped
}

// Failed is the number of pairs that produced an error.
func (a *Accumulator) Failed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed
}

// LastError returns the most recent failure, if any.
func (a *Accumulator) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// Runner fans page pairs out across a fixed worker pool. Pairs are
// independent, so workers share nothing but the task channel and the
// accumulator.
type Runner struct {
	comparer PageComparer
	workers  int
}

// NewRunner creates a batch runner with the given parallelism.
func NewRunner(comparer PageComparer, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{comparer: comparer, workers: workers}
}

// Run compares every entry and blocks until all workers drain the queue.
// Individual page failures are recorded and do not stop the batch.
func (r *Runner) Run(ctx context.Context, entries []entity.PairIndexEntry, force bool) *Accumulator {
	acc := &Accumulator{}
	taskQueue := make(chan entity.PairIndexEntry)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range taskQueue {
				r.processPair(ctx, entry, force, acc)
			}
		}()
	}

	for _, entry := range entries {
		select {
		case taskQueue <- entry:
		case <-ctx.Done():
			close(taskQueue)
			wg.Wait()
			return acc
		}
	}
	close(taskQueue)
	wg.Wait()
	return acc
}

func (r *Runner) processPair(ctx context.Context, entry entity.PairIndexEntry, force bool, acc *Accumulator) {
	metrics.PagesInFlight.Inc()
	defer metrics.PagesInFlight.Dec()

	result, err := r.comparer.ComparePage(ctx, entry, force)
	if err != nil {
		if errors.Is(err, ErrPageRecentlyCompared) {
			acc.addSkipped()
			return
		}
		slog.Error("Comparison failed", "page", entry.Key.String(), "error", err)
		acc.addFailure(err)
		return
	}
	acc.addScore(result.Quality)
}
