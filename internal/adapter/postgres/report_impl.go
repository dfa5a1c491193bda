package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
)

// ReportRepoImpl provides a concrete implementation of the ReportRepository
// and ScoreRepository interfaces using PostgreSQL.
type ReportRepoImpl struct {
	db *pgxpool.Pool
}

// NewReportRepo creates a new instance of ReportRepoImpl.
func NewReportRepo(db *pgxpool.Pool) *ReportRepoImpl {
	return &ReportRepoImpl{db: db}
}

// SavePage stores the comparison result for one page pair within a single
// transaction, replacing any previous rows for the same page.
func (r *ReportRepoImpl) SavePage(ctx context.Context, score entity.PageQualityScore, rows []entity.ClassificationResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM comparison_requests WHERE archive_id = $1 AND url_id = $2`,
		score.Key.ArchiveID, score.Key.URLID); err != nil {
		return err
	}

	// Batch insert request rows.
	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(
				`INSERT INTO comparison_requests
				 (archive_id, url_id, label, side, url, counterpart_url, current_status, archived_status, similarity)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				score.Key.ArchiveID, score.Key.URLID, string(row.Label), string(row.Side),
				row.URL, row.CounterpartURL, row.CurrentStatus, row.ArchivedStatus, row.Similarity)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting comparison rows: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO page_scores (archive_id, url_id, matched_same, matched_changed, unmatched, extra, score, scored_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (archive_id, url_id) DO UPDATE SET
		   matched_same = EXCLUDED.matched_same, matched_changed = EXCLUDED.matched_changed,
		   unmatched = EXCLUDED.unmatched, extra = EXCLUDED.extra,
		   score = EXCLUDED.score, scored_at = NOW()`,
		score.Key.ArchiveID, score.Key.URLID, score.MatchedSame, score.MatchedChanged,
		score.Unmatched, score.Extra, score.Score,
	); err != nil {
		return fmt.Errorf("upserting page score: %w", err)
	}

	return tx.Commit(ctx)
}

// FindScore retrieves the persisted page score.
func (r *ReportRepoImpl) FindScore(ctx context.Context, key entity.PageKey) (*entity.PageQualityScore, error) {
	score := entity.PageQualityScore{Key: key}
	err := r.db.QueryRow(ctx,
		`SELECT matched_same, matched_changed, unmatched, extra, score
		 FROM page_scores WHERE archive_id = $1 AND url_id = $2`,
		key.ArchiveID, key.URLID,
	).Scan(&score.MatchedSame, &score.MatchedChanged, &score.Unmatched, &score.Extra, &score.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}
