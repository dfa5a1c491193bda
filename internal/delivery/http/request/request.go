package request

// RequestRecord is the wire form of one observed network request.
type RequestRecord struct {
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
	StatusCode   int    `json:"status_code"`
	CaptureDate  string `json:"capture_date,omitempty"`
}

// CompareOptions mirrors the recognized configuration options. Pointer
// fields distinguish "absent" from zero so defaults survive.
type CompareOptions struct {
	MatchThreshold      *float64 `json:"match_threshold,omitempty"`
	TypeMismatchPenalty *float64 `json:"type_mismatch_penalty,omitempty"`
	MatchingStrategy    string   `json:"matching_strategy,omitempty"`
	Canonicalization    []string `json:"canonicalization_rules,omitempty"`
	IgnoreRedirects     bool     `json:"ignore_redirects,omitempty"`
	PenalizeExtra       bool     `json:"penalize_extra,omitempty"`
}

// CompareRequest is the payload for POST /api/compare: both sides of one
// page pair plus optional configuration overrides.
type CompareRequest struct {
	ArchiveID string          `json:"archive_id"`
	URLID     string          `json:"url_id"`
	Current   []RequestRecord `json:"current"`
	Archived  []RequestRecord `json:"archived"`
	Options   *CompareOptions `json:"options,omitempty"`
	Persist   bool            `json:"persist,omitempty"`
}
