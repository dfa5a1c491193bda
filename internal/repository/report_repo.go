package repository

import (
	"context"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// ReportRepository defines the interface for persisting comparison output:
// one row per classified request plus one summary row per page pair.
type ReportRepository interface {
	// SavePage writes the full result for one page pair. If the page was
	// reported before, the previous rows should be replaced.
	SavePage(ctx context.Context, score entity.PageQualityScore, rows []entity.ClassificationResult) error
}

// ScoreRepository defines the interface for reading back persisted page
// scores. Database-backed report sinks implement it; the CSV sink is
// write-only and does not.
type ScoreRepository interface {
	// FindScore retrieves a previously persisted page score.
	FindScore(ctx context.Context, key entity.PageKey) (*entity.PageQualityScore, error)
}
