package compare

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

// Scorer computes normalized similarity between two request records. It is a
// pure function of its inputs and safe for concurrent use.
type Scorer struct {
	canon       *Canonicalizer
	typePenalty float64
}

// NewScorer builds a scorer. typePenalty is the multiplicative factor applied
// when resource types differ; 1.0 disables the penalty entirely.
func NewScorer(canon *Canonicalizer, typePenalty float64) *Scorer {
	return &Scorer{canon: canon, typePenalty: typePenalty}
}

// Similarity returns a score in [0,1]. URLs are canonicalized first, then
// compared by normalized Levenshtein distance; a resource-type mismatch
// multiplies the result down rather than subtracting from it, so a script and
// an image with near-identical hashed names cannot sneak past the threshold.
func (s *Scorer) Similarity(a, b entity.RequestRecord) float64 {
	sim := s.urlSimilarity(a.URL, b.URL)
	if a.ResourceType != b.ResourceType {
		sim *= s.typePenalty
	}
	return sim
}

func (s *Scorer) urlSimilarity(a, b string) float64 {
	ca := s.canon.Canonicalize(a)
	cb := s.canon.Canonicalize(b)
	if ca == cb {
		return 1.0
	}
	longest := utf8.RuneCountInString(ca)
	if n := utf8.RuneCountInString(cb); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(ca, cb)
	return 1.0 - float64(dist)/float64(longest)
}
