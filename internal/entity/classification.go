package entity

// Label is the per-request comparison outcome.
type Label string

const (
	// MatchedSame: the archived request has a live counterpart serving the same status.
	MatchedSame Label = "MATCHED_SAME"
	// MatchedStatusChanged: counterpart found but the HTTP status differs.
	MatchedStatusChanged Label = "MATCHED_STATUS_CHANGED"
	// Unmatched: archived request with no live counterpart, the primary fidelity signal.
	Unmatched Label = "UNMATCHED"
	// Extra: live request absent from the archive; informative, not a defect.
	Extra Label = "EXTRA"
)

// ClassificationResult is the outcome for a single request. Index addresses
// the record within its own side's RequestSet; CounterpartIndex is -1 when
// the record did not match.
type ClassificationResult struct {
	Label            Label
	Side             Side
	Index            int
	CounterpartIndex int
	URL              string
	CounterpartURL   string
	Similarity       float64
	CurrentStatus    int
	ArchivedStatus   int
}

// Matched reports whether the record was absorbed into the assignment.
func (c ClassificationResult) Matched() bool {
	return c.Label == MatchedSame || c.Label == MatchedStatusChanged
}
