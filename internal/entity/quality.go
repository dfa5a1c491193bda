package entity

// PageQualityScore is the single interactional-quality metric for one page
// pair plus the counts that produced it. Computed once per comparison and
// immutable afterwards; persistence is the report writer's concern.
type PageQualityScore struct {
	Key            PageKey
	Score          float64
	MatchedSame    int
	MatchedChanged int
	Unmatched      int
	Extra          int
}
