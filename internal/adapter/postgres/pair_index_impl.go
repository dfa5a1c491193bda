package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// PairIndexRepoImpl derives the comparison worklist from the shared
// database: every dated archived capture that also has a current-side
// capture.
type PairIndexRepoImpl struct {
	db *pgxpool.Pool
}

// NewPairIndexRepo creates a new instance of PairIndexRepoImpl.
func NewPairIndexRepo(db *pgxpool.Pool) *PairIndexRepoImpl {
	return &PairIndexRepoImpl{db: db}
}

// ListPairs returns one entry per (archive_id, url_id, capture_date) present
// on both sides, ordered for deterministic batch runs.
func (r *PairIndexRepoImpl) ListPairs(ctx context.Context) ([]entity.PairIndexEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT a.archive_id, a.url_id, a.capture_date
		 FROM archive_network_requests a
		 WHERE EXISTS (
		   SELECT 1 FROM current_network_requests c
		   WHERE c.archive_id = a.archive_id AND c.url_id = a.url_id)
		 ORDER BY a.archive_id, a.url_id, a.capture_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.PairIndexEntry
	for rows.Next() {
		var archiveID, urlID, date string
		if err := rows.Scan(&archiveID, &urlID, &date); err != nil {
			return nil, err
		}
		entries = append(entries, entity.PairIndexEntry{
			Key:         entity.PageKey{ArchiveID: archiveID, URLID: urlID},
			CaptureDate: date,
		})
	}
	return entries, rows.Err()
}
