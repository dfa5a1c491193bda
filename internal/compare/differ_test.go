package compare

import (
	"reflect"
	"testing"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

func TestClassifyAllFourLabels(t *testing.T) {
	current := makeSet(entity.SideCurrent,
		record("a.com/index.html", entity.ResourceDocument, 200),
		record("a.com/app.js", entity.ResourceScript, 404),
		record("a.com/new-widget.js", entity.ResourceScript, 200),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/20200101000000/index.html", entity.ResourceDocument, 200),
		record("a.com/20200101000000js_/app.js", entity.ResourceScript, 200),
		record("a.com/20200101000000im_/banner.png", entity.ResourceImage, 200),
	)

	assignment := defaultMatcher(0.75, StrategyGreedy).Match(current, archived)
	results := Differ{}.Classify(assignment, current, archived)

	if len(results) != 4 {
		t.Fatalf("Classify returned %d results, want 4", len(results))
	}

	byLabel := map[entity.Label]entity.ClassificationResult{}
	for _, r := range results {
		byLabel[r.Label] = r
	}

	same, ok := byLabel[entity.MatchedSame]
	if !ok {
		t.Fatal("no MATCHED_SAME result")
	}
	if same.CounterpartIndex != 0 || same.CurrentStatus != 200 || same.ArchivedStatus != 200 {
		t.Errorf("MATCHED_SAME = %+v", same)
	}

	changed, ok := byLabel[entity.MatchedStatusChanged]
	if !ok {
		t.Fatal("no MATCHED_STATUS_CHANGED result")
	}
	if changed.CurrentStatus != 404 || changed.ArchivedStatus != 200 {
		t.Errorf("MATCHED_STATUS_CHANGED statuses = (%d, %d), want (404, 200)", changed.CurrentStatus, changed.ArchivedStatus)
	}

	unmatched, ok := byLabel[entity.Unmatched]
	if !ok {
		t.Fatal("no UNMATCHED result")
	}
	if unmatched.Side != entity.SideArchived || unmatched.CounterpartIndex != -1 {
		t.Errorf("UNMATCHED = %+v", unmatched)
	}
	if unmatched.URL != "a.com/20200101000000im_/banner.png" {
		t.Errorf("UNMATCHED url = %q", unmatched.URL)
	}

	extra, ok := byLabel[entity.Extra]
	if !ok {
		t.Fatal("no EXTRA result")
	}
	if extra.Side != entity.SideCurrent || extra.CounterpartIndex != -1 {
		t.Errorf("EXTRA = %+v", extra)
	}
	if extra.URL != "a.com/new-widget.js" {
		t.Errorf("EXTRA url = %q", extra.URL)
	}
}

func TestClassifyOrderArchivedThenExtras(t *testing.T) {
	current := makeSet(entity.SideCurrent,
		record("a.com/only-live.js", entity.ResourceScript, 200),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/only-archived.css", entity.ResourceStylesheet, 200),
	)

	assignment := defaultMatcher(0.75, StrategyGreedy).Match(current, archived)
	results := Differ{}.Classify(assignment, current, archived)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Label != entity.Unmatched || results[1].Label != entity.Extra {
		t.Errorf("order = [%s %s], want archived rows before extras", results[0].Label, results[1].Label)
	}
}

func TestClassifyIsPure(t *testing.T) {
	current := makeSet(entity.SideCurrent,
		record("a.com/index.html", entity.ResourceDocument, 200),
		record("a.com/extra.js", entity.ResourceScript, 200),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/index.html", entity.ResourceDocument, 200),
		record("a.com/gone.png", entity.ResourceImage, 200),
	)

	d := Differ{}
	assignment := defaultMatcher(0.75, StrategyGreedy).Match(current, archived)
	first := d.Classify(assignment, current, archived)
	second := d.Classify(assignment, current, archived)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Classify differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestClassifyIgnoreRedirects(t *testing.T) {
	current := makeSet(entity.SideCurrent,
		record("a.com/page", entity.ResourceDocument, 302),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/page", entity.ResourceDocument, 200),
	)
	assignment := defaultMatcher(0.75, StrategyGreedy).Match(current, archived)

	if got := (Differ{}).Classify(assignment, current, archived)[0].Label; got != entity.MatchedStatusChanged {
		t.Errorf("default: label = %s, want %s", got, entity.MatchedStatusChanged)
	}
	if got := (Differ{IgnoreRedirects: true}).Classify(assignment, current, archived)[0].Label; got != entity.MatchedSame {
		t.Errorf("IgnoreRedirects: label = %s, want %s", got, entity.MatchedSame)
	}
}

func TestClassifyNoResponseStatus(t *testing.T) {
	// A request that never completed on the live side still matches on URL but
	// is a status change against any real archived status.
	current := makeSet(entity.SideCurrent,
		record("a.com/slow.js", entity.ResourceScript, entity.StatusNoResponse),
	)
	archived := makeSet(entity.SideArchived,
		record("a.com/slow.js", entity.ResourceScript, 200),
	)
	assignment := defaultMatcher(0.75, StrategyGreedy).Match(current, archived)
	results := Differ{}.Classify(assignment, current, archived)

	if len(results) != 1 || results[0].Label != entity.MatchedStatusChanged {
		t.Fatalf("got %+v, want one MATCHED_STATUS_CHANGED", results)
	}
}
