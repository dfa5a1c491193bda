package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// PairIndexRepoImpl reads the pairing index CSV: one row per page giving the
// current and archived capture file names
// (current_url,archive_url,current_file_name,archive_file_name).
type PairIndexRepoImpl struct {
	path string
}

// NewPairIndexRepo creates a reader over one pairing index file.
func NewPairIndexRepo(path string) *PairIndexRepoImpl {
	return &PairIndexRepoImpl{path: path}
}

// ListPairs parses the whole index. Page identity and capture date are
// recovered from the file names, which the upstream stage builds as
// {archive_id}.{url_id}.csv and {archive_id}.{url_id}.{date}.csv.
func (r *PairIndexRepoImpl) ListPairs(ctx context.Context) ([]entity.PairIndexEntry, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// Skip header.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var entries []entity.PairIndexEntry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading index %s: %w", r.path, err)
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("index %s: row has %d columns, want 4", r.path, len(row))
		}
		entry := entity.PairIndexEntry{
			CurrentURL:      row[0],
			ArchiveURL:      row[1],
			CurrentFileName: row[2],
			ArchiveFileName: row[3],
		}
		key, date, err := parseArchiveFileName(entry.ArchiveFileName)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", r.path, err)
		}
		entry.Key = key
		entry.CaptureDate = date
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseArchiveFileName(name string) (entity.PageKey, string, error) {
	base := strings.TrimSuffix(name, ".csv")
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return entity.PageKey{}, "", fmt.Errorf("archive file name %q: want archive_id.url_id.date.csv", name)
	}
	key := entity.PageKey{ArchiveID: parts[0], URLID: parts[1]}
	return key, strings.Join(parts[2:], "."), nil
}
