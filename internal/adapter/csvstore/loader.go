// Package csvstore reads and writes the CSV layout the upstream capture
// stage produces: one request file per page capture, a pairing index mapping
// current files to archived files, and the comparison report.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
)

// RequestSetRepoImpl loads request sets from per-capture CSV files. Current
// captures are named {archive_id}.{url_id}.csv, archived captures
// {archive_id}.{url_id}.{date}.csv.
type RequestSetRepoImpl struct {
	currentDir  string
	archivedDir string
}

// NewRequestSetRepo creates a CSV-backed request set loader over the two
// capture directories.
func NewRequestSetRepo(currentDir, archivedDir string) *RequestSetRepoImpl {
	return &RequestSetRepoImpl{currentDir: currentDir, archivedDir: archivedDir}
}

// LoadCurrent reads the live-side request file for a page.
func (r *RequestSetRepoImpl) LoadCurrent(ctx context.Context, key entity.PageKey) (entity.RequestSet, error) {
	path := filepath.Join(r.currentDir, key.String()+".csv")
	return readRequestFile(path, key, entity.SideCurrent)
}

// LoadArchived reads the archived-side request file for a page capture.
func (r *RequestSetRepoImpl) LoadArchived(ctx context.Context, key entity.PageKey, captureDate string) (entity.RequestSet, error) {
	path := filepath.Join(r.archivedDir, key.String()+"."+captureDate+".csv")
	return readRequestFile(path, key, entity.SideArchived)
}

// readRequestFile parses one capture CSV. Current files carry the columns
// archive_id,url_id,url,resource_type,status_code; archived files insert a
// date column after url_id. Malformed rows reject the whole file so the core
// only ever sees validated input.
func readRequestFile(path string, key entity.PageKey, side entity.Side) (entity.RequestSet, error) {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: side}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, fmt.Errorf("%w: %s", repository.ErrNotFound, path)
		}
		return set, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// Header row decides the column layout.
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return set, nil
		}
		return set, fmt.Errorf("reading header of %s: %w", path, err)
	}
	col := columnIndex(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return set, fmt.Errorf("reading %s: %w", path, err)
		}
		rec, err := parseRow(row, col, key)
		if err != nil {
			return set, fmt.Errorf("%s: %w", path, err)
		}
		set.Records = append(set.Records, rec)
	}
	return set, nil
}

type columns struct {
	url, resourceType, statusCode, date int
}

func columnIndex(header []string) columns {
	col := columns{url: -1, resourceType: -1, statusCode: -1, date: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "url":
			col.url = i
		case "resource_type":
			col.resourceType = i
		case "status_code":
			col.statusCode = i
		case "date":
			col.date = i
		}
	}
	return col
}

func parseRow(row []string, col columns, key entity.PageKey) (entity.RequestRecord, error) {
	rec := entity.RequestRecord{ArchiveID: key.ArchiveID, URLID: key.URLID}
	if col.url >= 0 && col.url < len(row) {
		rec.URL = strings.TrimSpace(row[col.url])
	}
	if col.resourceType >= 0 && col.resourceType < len(row) {
		rec.ResourceType = entity.ResourceType(strings.TrimSpace(row[col.resourceType]))
	}
	if col.date >= 0 && col.date < len(row) {
		rec.CaptureDate = strings.TrimSpace(row[col.date])
	}
	if col.statusCode >= 0 && col.statusCode < len(row) {
		raw := strings.TrimSpace(row[col.statusCode])
		if raw == "" {
			rec.StatusCode = entity.StatusNoResponse
		} else {
			code, err := strconv.Atoi(raw)
			if err != nil {
				return rec, fmt.Errorf("%w: status code %q", entity.ErrMalformedRecord, raw)
			}
			rec.StatusCode = code
		}
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}
