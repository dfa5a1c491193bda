package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// RequestSetRepoImpl loads request sets from the upstream index database.
type RequestSetRepoImpl struct {
	db *sql.DB
}

// NewRequestSetRepo creates a sqlite-backed request set loader.
func NewRequestSetRepo(db *sql.DB) *RequestSetRepoImpl {
	return &RequestSetRepoImpl{db: db}
}

// LoadCurrent reads the live-side requests for a page.
func (r *RequestSetRepoImpl) LoadCurrent(ctx context.Context, key entity.PageKey) (entity.RequestSet, error) {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: entity.SideCurrent}
	rows, err := r.db.QueryContext(ctx,
		`SELECT url, resourceType, statusCode FROM current_network_requests
		 WHERE archiveID = ? AND urlID = ?`, key.ArchiveID, key.URLID)
	if err != nil {
		return set, err
	}
	defer rows.Close()

	for rows.Next() {
		var urlStr, resourceType, status string
		if err := rows.Scan(&urlStr, &resourceType, &status); err != nil {
			return set, err
		}
		rec, err := buildRecord(key, urlStr, resourceType, status, "")
		if err != nil {
			return set, err
		}
		set.Records = append(set.Records, rec)
	}
	return set, rows.Err()
}

// LoadArchived reads the archived-side requests for one dated capture.
func (r *RequestSetRepoImpl) LoadArchived(ctx context.Context, key entity.PageKey, captureDate string) (entity.RequestSet, error) {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: entity.SideArchived}
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, url, resourceType, statusCode FROM archive_network_requests
		 WHERE archiveID = ? AND urlID = ? AND date = ?`, key.ArchiveID, key.URLID, captureDate)
	if err != nil {
		return set, err
	}
	defer rows.Close()

	for rows.Next() {
		var date, urlStr, resourceType, status string
		if err := rows.Scan(&date, &urlStr, &resourceType, &status); err != nil {
			return set, err
		}
		rec, err := buildRecord(key, urlStr, resourceType, status, date)
		if err != nil {
			return set, err
		}
		set.Records = append(set.Records, rec)
	}
	return set, rows.Err()
}

// The capture stage stores status codes as text; empty text means the
// request never completed.
func buildRecord(key entity.PageKey, urlStr, resourceType, status, date string) (entity.RequestRecord, error) {
	rec := entity.RequestRecord{
		ArchiveID:    key.ArchiveID,
		URLID:        key.URLID,
		URL:          urlStr,
		ResourceType: entity.ResourceType(resourceType),
		CaptureDate:  date,
	}
	if status != "" {
		code, err := strconv.Atoi(status)
		if err != nil {
			return rec, fmt.Errorf("%w: status code %q", entity.ErrMalformedRecord, status)
		}
		rec.StatusCode = code
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}
