package response

// ClassificationRow is the wire form of one classified request.
type ClassificationRow struct {
	Label          string  `json:"label"`
	Side           string  `json:"side"`
	URL            string  `json:"url"`
	CounterpartURL string  `json:"counterpart_url,omitempty"`
	CurrentStatus  int     `json:"current_status,omitempty"`
	ArchivedStatus int     `json:"archived_status,omitempty"`
	Similarity     float64 `json:"similarity,omitempty"`
}

// PageScore is the page-level summary, mirroring entity.PageQualityScore.
type PageScore struct {
	ArchiveID      string  `json:"archive_id"`
	URLID          string  `json:"url_id"`
	Score          float64 `json:"score"`
	MatchedSame    int     `json:"matched_same"`
	MatchedChanged int     `json:"matched_status_changed"`
	Unmatched      int     `json:"unmatched"`
	Extra          int     `json:"extra"`
}

// CompareResponse is the full result for POST /api/compare.
type CompareResponse struct {
	Requests []ClassificationRow `json:"requests"`
	Summary  PageScore           `json:"summary"`
}
