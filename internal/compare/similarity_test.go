package compare

import (
	"testing"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

func record(url string, rt entity.ResourceType, status int) entity.RequestRecord {
	return entity.RequestRecord{URL: url, ResourceType: rt, StatusCode: status}
}

func TestSimilarityCollapsesArchiveRewriting(t *testing.T) {
	scorer := NewScorer(NewCanonicalizer(), 0.5)

	live := record("a.com/img.png", entity.ResourceImage, 200)
	replay := record("a.com/20200101000000im_/img.png", entity.ResourceImage, 200)

	if got := scorer.Similarity(live, replay); got != 1.0 {
		t.Errorf("Similarity = %v, want 1.0 after canonicalization", got)
	}
}

func TestSimilarityTypeMismatchIsMultiplicative(t *testing.T) {
	scorer := NewScorer(NewCanonicalizer(), 0.5)

	img := record("a.com/asset/ab12cd34", entity.ResourceImage, 200)
	script := record("a.com/asset/ab12cd34", entity.ResourceScript, 200)

	// Identical URLs but different fetch kinds: the penalty must scale the
	// whole score down, not subtract a fixed amount.
	if got := scorer.Similarity(img, script); got != 0.5 {
		t.Errorf("Similarity = %v, want 0.5", got)
	}

	lenient := NewScorer(NewCanonicalizer(), 1.0)
	if got := lenient.Similarity(img, script); got != 1.0 {
		t.Errorf("Similarity with penalty 1.0 = %v, want 1.0", got)
	}
}

func TestSimilarityNormalizedEditDistance(t *testing.T) {
	scorer := NewScorer(NewCanonicalizer(), 0.5)

	a := record("a.com/abcdefgh", entity.ResourceScript, 200)
	b := record("a.com/xbcdefgh", entity.ResourceScript, 200)

	want := 1.0 - float64(1)/float64(14) // one edit over 14 characters
	if got := scorer.Similarity(a, b); got != want {
		t.Errorf("Similarity = %v, want %v", got, want)
	}
}

func TestSimilarityBoundsAndPurity(t *testing.T) {
	scorer := NewScorer(NewCanonicalizer(), 0.5)

	pairs := [][2]entity.RequestRecord{
		{record("a.com/x", entity.ResourceImage, 200), record("completely.different.org/path/y.js", entity.ResourceScript, 200)},
		{record("a.com/x", entity.ResourceImage, 200), record("a.com/x", entity.ResourceImage, 200)},
		{record("x", entity.ResourceOther, 0), record("yyyyyyyyyyyyyyyy", entity.ResourceOther, 0)},
	}
	for _, p := range pairs {
		first := scorer.Similarity(p[0], p[1])
		if first < 0 || first > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0].URL, p[1].URL, first)
		}
		if second := scorer.Similarity(p[0], p[1]); second != first {
			t.Errorf("Similarity is not deterministic: %v then %v", first, second)
		}
	}
}
