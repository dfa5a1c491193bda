package csvstore

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

var reportHeader = []string{
	"archive_id", "url_id", "row_type", "label", "side", "url",
	"counterpart_url", "current_status", "archived_status", "similarity",
	"matched_same", "matched_status_changed", "unmatched", "extra", "score",
}

// ReportRepoImpl appends comparison results to a single report CSV: one row
// per request followed by one summary row per page pair. It is a write-only
// sink shared by all workers, so writes are serialized internally.
type ReportRepoImpl struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewReportRepo creates the report file and writes the header.
func NewReportRepo(path string) (*ReportRepoImpl, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		f.Close()
		return nil, err
	}
	return &ReportRepoImpl{file: f, writer: w}, nil
}

// SavePage writes the request rows and the page summary row.
func (r *ReportRepoImpl) SavePage(ctx context.Context, score entity.PageQualityScore, rows []entity.ClassificationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		record := []string{
			score.Key.ArchiveID, score.Key.URLID, "request",
			string(row.Label), string(row.Side), row.URL, row.CounterpartURL,
			formatStatus(row.CurrentStatus), formatStatus(row.ArchivedStatus),
			formatSimilarity(row),
			"", "", "", "", "",
		}
		if err := r.writer.Write(record); err != nil {
			return err
		}
	}

	summary := []string{
		score.Key.ArchiveID, score.Key.URLID, "summary",
		"", "", "", "", "", "", "",
		strconv.Itoa(score.MatchedSame),
		strconv.Itoa(score.MatchedChanged),
		strconv.Itoa(score.Unmatched),
		strconv.Itoa(score.Extra),
		strconv.FormatFloat(score.Score, 'f', 4, 64),
	}
	if err := r.writer.Write(summary); err != nil {
		return err
	}
	r.writer.Flush()
	return r.writer.Error()
}

// Close flushes and closes the underlying file.
func (r *ReportRepoImpl) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

func formatStatus(code int) string {
	if code == entity.StatusNoResponse {
		return ""
	}
	return strconv.Itoa(code)
}

func formatSimilarity(row entity.ClassificationResult) string {
	if !row.Matched() {
		return ""
	}
	return strconv.FormatFloat(row.Similarity, 'f', 4, 64)
}
