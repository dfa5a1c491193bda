package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/reyesayala/wa-network-request-compare/internal/compare"
	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

type scriptedComparer struct {
	mu    sync.Mutex
	calls int
	fn    func(entry entity.PairIndexEntry) (*compare.Result, error)
}

func (s *scriptedComparer) ComparePage(ctx context.Context, entry entity.PairIndexEntry, force bool) (*compare.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(entry)
}

func (s *scriptedComparer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func entries(n int) []entity.PairIndexEntry {
	out := make([]entity.PairIndexEntry, n)
	for i := range out {
		out[i] = entity.PairIndexEntry{
			Key:         entity.PageKey{ArchiveID: "1", URLID: string(rune('a' + i))},
			CaptureDate: "20200101000000",
		}
	}
	return out
}

func okResult(key entity.PageKey) *compare.Result {
	return &compare.Result{Quality: entity.PageQualityScore{Key: key, Score: 1.0}}
}

func TestRunnerProcessesAllEntries(t *testing.T) {
	comparer := &scriptedComparer{fn: func(e entity.PairIndexEntry) (*compare.Result, error) {
		return okResult(e.Key), nil
	}}

	acc := NewRunner(comparer, 4).Run(context.Background(), entries(10), false)

	if comparer.callCount() != 10 {
		t.Errorf("comparer called %d times, want 10", comparer.callCount())
	}
	if acc.Completed() != 10 || acc.Failed() != 0 || acc.Skipped() != 0 {
		t.Errorf("completed=%d failed=%d skipped=%d", acc.Completed(), acc.Failed(), acc.Skipped())
	}
	if len(acc.Scores()) != 10 {
		t.Errorf("got %d scores, want 10", len(acc.Scores()))
	}
}

func TestRunnerRecordsSkipsAndFailures(t *testing.T) {
	boom := errors.New("boom")
	comparer := &scriptedComparer{fn: func(e entity.PairIndexEntry) (*compare.Result, error) {
		switch e.Key.URLID {
		case "a":
			return nil, ErrPageRecentlyCompared
		case "b":
			return nil, boom
		default:
			return okResult(e.Key), nil
		}
	}}

	acc := NewRunner(comparer, 2).Run(context.Background(), entries(5), false)

	if acc.Skipped() != 1 {
		t.Errorf("skipped = %d, want 1", acc.Skipped())
	}
	if acc.Failed() != 1 {
		t.Errorf("failed = %d, want 1", acc.Failed())
	}
	if !errors.Is(acc.LastError(), boom) {
		t.Errorf("LastError = %v, want boom", acc.LastError())
	}
	if acc.Completed() != 3 {
		t.Errorf("completed = %d, want 3", acc.Completed())
	}
}

func TestRunnerFailuresDoNotStopBatch(t *testing.T) {
	comparer := &scriptedComparer{fn: func(e entity.PairIndexEntry) (*compare.Result, error) {
		return nil, errors.New("every page fails")
	}}

	acc := NewRunner(comparer, 3).Run(context.Background(), entries(7), false)

	if comparer.callCount() != 7 {
		t.Errorf("comparer called %d times, want 7", comparer.callCount())
	}
	if acc.Failed() != 7 {
		t.Errorf("failed = %d, want 7", acc.Failed())
	}
}

func TestRunnerStopsEnqueueingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	comparer := &scriptedComparer{fn: func(e entity.PairIndexEntry) (*compare.Result, error) {
		once.Do(func() { close(started) })
		<-release
		return okResult(e.Key), nil
	}}

	go func() {
		<-started
		cancel()
		close(release)
	}()

	acc := NewRunner(comparer, 1).Run(ctx, entries(50), false)

	if comparer.callCount() >= 50 {
		t.Errorf("comparer called %d times, want fewer than 50 after cancel", comparer.callCount())
	}
	total := acc.Completed() + acc.Failed() + acc.Skipped()
	if total != comparer.callCount() {
		t.Errorf("accumulator total %d != calls %d", total, comparer.callCount())
	}
}

func TestRunnerClampsWorkerCount(t *testing.T) {
	comparer := &scriptedComparer{fn: func(e entity.PairIndexEntry) (*compare.Result, error) {
		return okResult(e.Key), nil
	}}

	acc := NewRunner(comparer, 0).Run(context.Background(), entries(3), false)
	if acc.Completed() != 3 {
		t.Errorf("completed = %d, want 3", acc.Completed())
	}
}
