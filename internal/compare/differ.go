package compare

import (
	"net/http"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// Differ turns a match assignment into per-request classifications. It is a
// pure function of its inputs.
type Differ struct {
	// IgnoreRedirects treats a 302 on either side as not a status change,
	// since replay systems often answer with a redirect where the live site
	// serves the resource directly.
	IgnoreRedirects bool
}

// Classify emits one result per archived record (matched or UNMATCHED)
// followed by one result per unmatched current record (EXTRA). A matched
// current record is fully described by its archived row's counterpart fields,
// so it produces no row of its own.
func (d Differ) Classify(assignment *Assignment, current, archived entity.RequestSet) []entity.ClassificationResult {
	results := make([]entity.ClassificationResult, 0, len(archived.Records)+len(current.Records)-assignment.Len())

	for j, aRec := range archived.Records {
		i, ok := assignment.CurrentFor(j)
		if !ok {
			results = append(results, entity.ClassificationResult{
				Label:            entity.Unmatched,
				Side:             entity.SideArchived,
				Index:            j,
				CounterpartIndex: -1,
				URL:              aRec.URL,
				ArchivedStatus:   aRec.StatusCode,
			})
			continue
		}
		cRec := current.Records[i]
		label := entity.MatchedStatusChanged
		if d.sameStatus(cRec.StatusCode, aRec.StatusCode) {
			label = entity.MatchedSame
		}
		results = append(results, entity.ClassificationResult{
			Label:            label,
			Side:             entity.SideArchived,
			Index:            j,
			CounterpartIndex: i,
			URL:              aRec.URL,
			CounterpartURL:   cRec.URL,
			Similarity:       assignment.Score(j),
			CurrentStatus:    cRec.StatusCode,
			ArchivedStatus:   aRec.StatusCode,
		})
	}

	for i, cRec := range current.Records {
		if _, ok := assignment.ArchivedFor(i); ok {
			continue
		}
		results = append(results, entity.ClassificationResult{
			Label:            entity.Extra,
			Side:             entity.SideCurrent,
			Index:            i,
			CounterpartIndex: -1,
			URL:              cRec.URL,
			CurrentStatus:    cRec.StatusCode,
		})
	}

	return results
}

func (d Differ) sameStatus(currentStatus, archivedStatus int) bool {
	if currentStatus == archivedStatus {
		return true
	}
	if d.IgnoreRedirects && (currentStatus == http.StatusFound || archivedStatus == http.StatusFound) {
		return true
	}
	return false
}
