package compare

import "github.com/reyesayala/wa-network-request-compare/internal/entity"

// QualityScorer reduces a classification sequence to the page's single
// interactional-quality number.
type QualityScorer struct {
	// PenalizeExtra folds live-only requests into the denominator for users
	// who consider live drift a fidelity defect. Off by default: new content
	// on the live site is not the archive's fault.
	PenalizeExtra bool
}

// Score counts labels and computes matched_same over all archived-originated
// outcomes. A zero denominator (no archived requests) is vacuously perfect
// fidelity and scores 1.0.
func (q QualityScorer) Score(key entity.PageKey, results []entity.ClassificationResult) entity.PageQualityScore {
	score := entity.PageQualityScore{Key: key}
	for _, r := range results {
		switch r.Label {
		case entity.MatchedSame:
			score.MatchedSame++
		case entity.MatchedStatusChanged:
			score.MatchedChanged++
		case entity.Unmatched:
			score.Unmatched++
		case entity.Extra:
			score.Extra++
		}
	}

	denominator := score.MatchedSame + score.MatchedChanged + score.Unmatched
	if q.PenalizeExtra {
		denominator += score.Extra
	}
	if denominator == 0 {
		score.Score = 1.0
		return score
	}
	score.Score = float64(score.MatchedSame) / float64(denominator)
	return score
}
