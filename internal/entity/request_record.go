package entity

import "fmt"

// ResourceType is the fetch category reported by the capture stage.
type ResourceType string

const (
	ResourceDocument   ResourceType = "document"
	ResourceScript     ResourceType = "script"
	ResourceStylesheet ResourceType = "stylesheet"
	ResourceImage      ResourceType = "image"
	ResourceXHR        ResourceType = "xhr"
	ResourceFont       ResourceType = "font"
	ResourceOther      ResourceType = "other"
)

// StatusNoResponse is the sentinel for a request that never completed.
const StatusNoResponse = 0

// Side identifies which capture a request set was observed on.
type Side string

const (
	SideCurrent  Side = "current"
	SideArchived Side = "archived"
)

// RequestRecord is one subsidiary network request observed during a page load.
// CaptureDate is set only on archived-side records.
type RequestRecord struct {
	ArchiveID    string
	URLID        string
	URL          string
	ResourceType ResourceType
	StatusCode   int
	CaptureDate  string
}

// Validate enforces the load-time invariants: a non-empty URL and a status
// code that is either the no-response sentinel or a valid HTTP status.
func (r RequestRecord) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("%w: empty url (archive_id=%s url_id=%s)", ErrMalformedRecord, r.ArchiveID, r.URLID)
	}
	if r.StatusCode != StatusNoResponse && (r.StatusCode < 100 || r.StatusCode > 599) {
		return fmt.Errorf("%w: status code %d out of range for %s", ErrMalformedRecord, r.StatusCode, r.URL)
	}
	return nil
}

// RequestSet is the ordered collection of requests observed while loading one
// page capture. Order carries no meaning beyond deterministic tie-breaking.
type RequestSet struct {
	ArchiveID string
	URLID     string
	Side      Side
	Records   []RequestRecord
}

// Validate checks every record in the set, failing on the first malformed one.
func (s RequestSet) Validate() error {
	for i, r := range s.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// PageKey identifies one page capture pair across both sides.
type PageKey struct {
	ArchiveID string
	URLID     string
}

func (k PageKey) String() string {
	return k.ArchiveID + "." + k.URLID
}

// ComparisonPair bundles the two sides of one page comparison.
type ComparisonPair struct {
	Key      PageKey
	Current  RequestSet
	Archived RequestSet
}
