package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// RequestSetRepoImpl provides a concrete implementation of the
// RequestSetRepository interface over PostgreSQL, for deployments where the
// capture stage writes into a shared database instead of CSV directories.
type RequestSetRepoImpl struct {
	db *pgxpool.Pool
}

// NewRequestSetRepo creates a new instance of RequestSetRepoImpl.
func NewRequestSetRepo(db *pgxpool.Pool) *RequestSetRepoImpl {
	return &RequestSetRepoImpl{db: db}
}

// LoadCurrent retrieves the live-side request set for a page.
func (r *RequestSetRepoImpl) LoadCurrent(ctx context.Context, key entity.PageKey) (entity.RequestSet, error) {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: entity.SideCurrent}
	rows, err := r.db.Query(ctx,
		`SELECT url, resource_type, COALESCE(status_code, 0)
		 FROM current_network_requests
		 WHERE archive_id = $1 AND url_id = $2
		 ORDER BY id`, key.ArchiveID, key.URLID)
	if err != nil {
		return set, err
	}
	defer rows.Close()

	for rows.Next() {
		rec := entity.RequestRecord{ArchiveID: key.ArchiveID, URLID: key.URLID}
		var resourceType string
		if err := rows.Scan(&rec.URL, &resourceType, &rec.StatusCode); err != nil {
			return set, err
		}
		rec.ResourceType = entity.ResourceType(resourceType)
		if err := rec.Validate(); err != nil {
			return set, err
		}
		set.Records = append(set.Records, rec)
	}
	return set, rows.Err()
}

// LoadArchived retrieves the archived-side request set for one dated capture.
func (r *RequestSetRepoImpl) LoadArchived(ctx context.Context, key entity.PageKey, captureDate string) (entity.RequestSet, error) {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: entity.SideArchived}
	rows, err := r.db.Query(ctx,
		`SELECT url, resource_type, COALESCE(status_code, 0), capture_date
		 FROM archive_network_requests
		 WHERE archive_id = $1 AND url_id = $2 AND capture_date = $3
		 ORDER BY id`, key.ArchiveID, key.URLID, captureDate)
	if err != nil {
		return set, err
	}
	defer rows.Close()

	for rows.Next() {
		rec := entity.RequestRecord{ArchiveID: key.ArchiveID, URLID: key.URLID}
		var resourceType string
		if err := rows.Scan(&rec.URL, &resourceType, &rec.StatusCode, &rec.CaptureDate); err != nil {
			return set, err
		}
		rec.ResourceType = entity.ResourceType(resourceType)
		if err := rec.Validate(); err != nil {
			return set, err
		}
		set.Records = append(set.Records, rec)
	}
	return set, rows.Err()
}
