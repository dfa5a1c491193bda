package sqlite

import (
	"context"
	"database/sql"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// PairIndexRepoImpl derives the comparison worklist from the index database:
// every dated archived capture that also has a current-side capture.
type PairIndexRepoImpl struct {
	db *sql.DB
}

// NewPairIndexRepo creates a sqlite-backed pairing index.
func NewPairIndexRepo(db *sql.DB) *PairIndexRepoImpl {
	return &PairIndexRepoImpl{db: db}
}

// ListPairs returns one entry per (archiveID, urlID, date) present on both
// sides, ordered for deterministic batch runs.
func (r *PairIndexRepoImpl) ListPairs(ctx context.Context) ([]entity.PairIndexEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT a.archiveID, a.urlID, a.date
		 FROM archive_network_requests a
		 WHERE EXISTS (
		   SELECT 1 FROM current_network_requests c
		   WHERE c.archiveID = a.archiveID AND c.urlID = a.urlID)
		 ORDER BY a.archiveID, a.urlID, a.date`)
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
