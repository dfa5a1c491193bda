package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reyesayala/wa-network-request-compare/internal/compare"
	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
	"github.com/reyesayala/wa-network-request-compare/pkg/metrics"
)

var (
	// ErrPageRecentlyCompared signals a cache hit: the pair was scored
	// within the TTL and force was false.
	ErrPageRecentlyCompared = errors.New("page pair was compared recently and force is false")
)

// PageComparer defines the interface for running one full page-pair
// comparison: load both sides, run the core, persist the report.
type PageComparer interface {
	ComparePage(ctx context.Context, entry entity.PairIndexEntry, force bool) (*compare.Result, error)
}

type pageComparerUseCase struct {
	requestSets repository.RequestSetRepository
	reports     repository.ReportRepository
	cache       repository.ResultCacheRepository // nil disables caching
	opts        compare.Options
	cacheTTL    time.Duration
}

// NewPageComparer creates the comparison use case. Options are validated
// here so a bad threshold fails before any page pair is attempted.
func NewPageComparer(
	requestSets repository.RequestSetRepository,
	reports repository.ReportRepository,
	cache repository.ResultCacheRepository,
	opts compare.Options,
	cacheTTL time.Duration,
) (PageComparer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &pageComparerUseCase{
		requestSets: requestSets,
		reports:     reports,
		cache:       cache,
		opts:        opts,
		cacheTTL:    cacheTTL,
	}, nil
}

// ComparePage runs the pipeline for one page pair. Either the whole result
// is produced and persisted, or an error is returned and nothing partial is
// emitted.
func (uc *pageComparerUseCase) ComparePage(ctx context.Context, entry entity.PairIndexEntry, force bool) (*compare.Result, error) {
	start := time.Now()

	if uc.cache != nil {
		if force {
			if err := uc.cache.Invalidate(ctx, entry.Key); err != nil {
				// Not critical: worst case the stale entry expires on its own.
				slog.Warn("Failed to invalidate cached result", "page", entry.Key.String(), "error", err)
			}
		} else {
			score, hit, err := uc.cache.FindRecent(ctx, entry.Key)
			if err != nil {
				slog.Error("Failed to check result cache", "page", entry.Key.String(), "error", err)
			} else if hit {
				metrics.ComparisonsTotal.WithLabelValues("skipped_cached").Inc()
				slog.Info("Skipping recently compared page pair", "page", entry.Key.String(), "cached_score", score)
				return nil, ErrPageRecentlyCompared
			}
		}
	}

	current, err := uc.requestSets.LoadCurrent(ctx, entry.Key)
	if err != nil {
		metrics.ComparisonsTotal.WithLabelValues("load_failed").Inc()
		return nil, fmt.Errorf("loading current side of %s: %w", entry.Key.String(), err)
	}
	archived, err := uc.requestSets.LoadArchived(ctx, entry.Key, entry.CaptureDate)
	if err != nil {
		metrics.ComparisonsTotal.WithLabelValues("load_failed").Inc()
		return nil, fmt.Errorf("loading archived side of %s: %w", entry.Key.String(), err)
	}

	result, err := compare.Compare(entity.ComparisonPair{
		Key:      entry.Key,
		Current:  current,
		Archived: archived,
	}, uc.opts)
	if err != nil {
		return nil, err
	}

	if err := uc.reports.SavePage(ctx, result.Quality, result.Classifications); err != nil {
		metrics.ComparisonsTotal.WithLabelValues("report_failed").Inc()
		return nil, fmt.Errorf("saving report for %s: %w", entry.Key.String(), err)
	}

	if uc.cache != nil {
		if err := uc.cache.MarkCompared(ctx, entry.Key, result.Quality.Score, uc.cacheTTL); err != nil {
			slog.Warn("Failed to cache comparison result", "page", entry.Key.String(), "error", err)
		}
	}

	metrics.ComparisonsTotal.WithLabelValues("completed").Inc()
	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	metrics.PageQualityScores.Observe(result.Quality.Score)

	slog.Info("Page pair compared",
		"page", entry.Key.String(),
		"score", result.Quality.Score,
		"matched_same", result.Quality.MatchedSame,
		"status_changed", result.Quality.MatchedChanged,
		"unmatched", result.Quality.Unmatched,
		"extra", result.Quality.Extra,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
