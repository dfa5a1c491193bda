package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
)

// ReportRepoImpl persists comparison output into the index database.
type ReportRepoImpl struct {
	db *sql.DB
}

// NewReportRepo creates a sqlite-backed report sink.
func NewReportRepo(db *sql.DB) *ReportRepoImpl {
	return &ReportRepoImpl{db: db}
}

// SavePage replaces any previous rows for the page and writes the new result
// in one transaction.
func (r *ReportRepoImpl) SavePage(ctx context.Context, score entity.PageQualityScore, rows []entity.ClassificationResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comparison_requests WHERE archiveID = ? AND urlID = ?`,
		score.Key.ArchiveID, score.Key.URLID); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comparison_requests
			 (archiveID, urlID, label, side, url, counterpartURL, currentStatus, archivedStatus, similarity)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			score.Key.ArchiveID, score.Key.URLID, string(row.Label), string(row.Side),
			row.URL, row.CounterpartURL, row.CurrentStatus, row.ArchivedStatus, row.Similarity,
		); err != nil {
			return fmt.Errorf("inserting comparison row: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO page_scores (archiveID, urlID, matchedSame, matchedChanged, unmatched, extra, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (archiveID, urlID) DO UPDATE SET
		   matchedSame = excluded.matchedSame, matchedChanged = excluded.matchedChanged,
		   unmatched = excluded.unmatched, extra = excluded.extra, score = excluded.score`,
		score.Key.ArchiveID, score.Key.URLID, score.MatchedSame, score.MatchedChanged,
		score.Unmatched, score.Extra, score.Score,
	); err != nil {
		return fmt.Errorf("upserting page score: %w", err)
	}

	return tx.Commit()
}

// FindScore reads back a persisted page score.
func (r *ReportRepoImpl) FindScore(ctx context.Context, key entity.PageKey) (*entity.PageQualityScore, error) {
	score := entity.PageQualityScore{Key: key}
	err := r.db.QueryRowContext(ctx,
		`SELECT matchedSame, matchedChanged, unmatched, extra, score
		 FROM page_scores WHERE archiveID = ? AND urlID = ?`,
		key.ArchiveID, key.URLID,
	).Scan(&score.MatchedSame, &score.MatchedChanged, &score.Unmatched, &score.Extra, &score.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}
