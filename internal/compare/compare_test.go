package compare

import (
	"errors"
	"testing"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

func pair(current, archived entity.RequestSet) entity.ComparisonPair {
	return entity.ComparisonPair{
		Key:      entity.PageKey{ArchiveID: "3491", URLID: "1"},
		Current:  current,
		Archived: archived,
	}
}

func TestCompareRewrittenURLScoresPerfect(t *testing.T) {
	p := pair(
		makeSet(entity.SideCurrent, record("a.com/img.png", entity.ResourceImage, 200)),
		makeSet(entity.SideArchived, record("a.com/20200101000000im_/img.png", entity.ResourceImage, 200)),
	)

	result, err := Compare(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(result.Classifications) != 1 {
		t.Fatalf("got %d classifications, want 1", len(result.Classifications))
	}
	if got := result.Classifications[0].Label; got != entity.MatchedSame {
		t.Errorf("label = %s, want %s", got, entity.MatchedSame)
	}
	if result.Quality.Score != 1.0 {
		t.Errorf("quality = %v, want 1.0", result.Quality.Score)
	}
}

func TestCompareStatusChangeScoresZero(t *testing.T) {
	p := pair(
		makeSet(entity.SideCurrent, record("a.com/app.js", entity.ResourceScript, 404)),
		makeSet(entity.SideArchived, record("a.com/app.js", entity.ResourceScript, 200)),
	)

	result, err := Compare(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got := result.Classifications[0].Label; got != entity.MatchedStatusChanged {
		t.Errorf("label = %s, want %s", got, entity.MatchedStatusChanged)
	}
	if result.Quality.Score != 0.0 {
		t.Errorf("quality = %v, want 0.0", result.Quality.Score)
	}
}

func TestCompareMissingArchivedRequestHalvesScore(t *testing.T) {
	p := pair(
		makeSet(entity.SideCurrent,
			record("a.com/index.html", entity.ResourceDocument, 200),
		),
		makeSet(entity.SideArchived,
			record("a.com/index.html", entity.ResourceDocument, 200),
			record("a.com/banner.js", entity.ResourceScript, 200),
		),
	)

	result, err := Compare(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.Quality.MatchedSame != 1 || result.Quality.Unmatched != 1 {
		t.Fatalf("counts = %+v", result.Quality)
	}
	if result.Quality.Score != 0.5 {
		t.Errorf("quality = %v, want 0.5", result.Quality.Score)
	}
}

func TestCompareEmptyArchivedSide(t *testing.T) {
	p := pair(
		makeSet(entity.SideCurrent,
			record("a.com/index.html", entity.ResourceDocument, 200),
			record("a.com/app.js", entity.ResourceScript, 200),
		),
		makeSet(entity.SideArchived),
	)

	result, err := Compare(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.Quality.Score != 1.0 {
		t.Errorf("quality = %v, want 1.0 with nothing archived", result.Quality.Score)
	}
	if len(result.Classifications) != 2 {
		t.Fatalf("got %d classifications, want 2 extras", len(result.Classifications))
	}
	for _, r := range result.Classifications {
		if r.Label != entity.Extra {
			t.Errorf("label = %s, want %s", r.Label, entity.Extra)
		}
	}
}

func TestCompareBothSidesEmpty(t *testing.T) {
	result, err := Compare(pair(makeSet(entity.SideCurrent), makeSet(entity.SideArchived)), DefaultOptions())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(result.Classifications) != 0 {
		t.Errorf("got %d classifications, want 0", len(result.Classifications))
	}
	if result.Quality.Score != 1.0 {
		t.Errorf("quality = %v, want 1.0", result.Quality.Score)
	}
}

func TestCompareOptionValidation(t *testing.T) {
	base := DefaultOptions()
	p := pair(makeSet(entity.SideCurrent), makeSet(entity.SideArchived))

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"threshold below zero", func(o *Options) { o.MatchThreshold = -0.1 }, ErrThresholdOutOfRange},
		{"threshold above one", func(o *Options) { o.MatchThreshold = 1.5 }, ErrThresholdOutOfRange},
		{"penalty below zero", func(o *Options) { o.TypeMismatchPenalty = -0.5 }, ErrPenaltyOutOfRange},
		{"penalty above one", func(o *Options) { o.TypeMismatchPenalty = 2 }, ErrPenaltyOutOfRange},
		{"unknown strategy", func(o *Options) { o.Strategy = "annealing" }, ErrUnknownStrategy},
		{"unknown rule", func(o *Options) { o.Rules = []Rule{"strip_everything"} }, ErrUnknownRule},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := base
			tc.mutate(&opts)
			if _, err := Compare(p, opts); !errors.Is(err, tc.wantErr) {
				t.Errorf("Compare err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	edges := base
	edges.MatchThreshold = 0
	edges.TypeMismatchPenalty = 1
	edges.Rules = AllRules
	if err := edges.Validate(); err != nil {
		t.Errorf("inclusive bounds should validate, got %v", err)
	}
}

func TestCompareOptimalRecoversGreedyStrandedPair(t *testing.T) {
	// Pairwise similarities at threshold 0.75 (all URLs are 20 runes):
	//   currA-archX 0.95   currA-archY 0.80
	//   currB-archX 0.90   currB-archY 0.65 (ineligible)
	// Greedy takes currA-archX and strands currB. Optimal picks the crossed
	// pairs currA-archY and currB-archX, matching everything.
	current := makeSet(entity.SideCurrent,
		record("a.com/cccccccccccccc", entity.ResourceImage, 200),
		record("a.com/eecccccccccccd", entity.ResourceImage, 200),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/cccccccccccccd", entity.ResourceImage, 200),
		record("a.com/ccccffffcccccc", entity.ResourceImage, 200),
	)

	greedyOpts := DefaultOptions()
	greedyResult, err := Compare(pair(current, archived), greedyOpts)
	if err != nil {
		t.Fatalf("Compare greedy: %v", err)
	}
	if greedyResult.Quality.MatchedSame != 1 {
		t.Errorf("greedy matched %d pairs, want 1 (%+v)", greedyResult.Quality.MatchedSame, greedyResult.Quality)
	}

	optimalOpts := DefaultOptions()
	optimalOpts.Strategy = StrategyOptimal
	optimalResult, err := Compare(pair(current, archived), optimalOpts)
	if err != nil {
		t.Fatalf("Compare optimal: %v", err)
	}
	if optimalResult.Quality.MatchedSame != 2 {
		t.Errorf("optimal matched %d pairs, want 2 (%+v)", optimalResult.Quality.MatchedSame, optimalResult.Quality)
	}
}
