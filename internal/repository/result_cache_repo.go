package repository

import (
	"context"
	"time"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// ResultCacheRepository defines the interface for short-lived deduplication
// of comparison runs, so re-running a batch skips pairs scored recently.
type ResultCacheRepository interface {
	// MarkCompared records a page pair's score with an expiry time.
	MarkCompared(ctx context.Context, key entity.PageKey, score float64, expiry time.Duration) error
	// FindRecent returns the cached score, or (0, false, nil) on a miss.
	FindRecent(ctx context.Context, key entity.PageKey) (float64, bool, error)
	// Invalidate removes a cached entry, used for forced re-comparison.
	Invalidate(ctx context.Context, key entity.PageKey) error
}
