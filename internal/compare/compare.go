// Package compare implements the comparison core: canonicalization,
// similarity scoring, matching, classification, and quality scoring for one
// current/archived request-set pair. Everything in this package is pure and
// CPU-bound; loading and persisting request sets live in the adapters.
package compare

import (
	"errors"
	"fmt"

	"github.com/reyesayala/wa-network-request-compare/internal/entity"
)

var (
	// ErrThresholdOutOfRange is a configuration error surfaced before any
	// comparison runs.
	ErrThresholdOutOfRange = errors.New("match_threshold out of range [0,1]")
	ErrPenaltyOutOfRange   = errors.New("type_mismatch_penalty out of range [0,1]")
	ErrUnknownStrategy     = errors.New("unknown matching_strategy")
	ErrUnknownRule         = errors.New("unknown canonicalization rule")
)

// Options configures one comparison run.
type Options struct {
	MatchThreshold      float64
	TypeMismatchPenalty float64
	Strategy            Strategy
	// Rules restricts the canonicalization passes; empty enables all.
	Rules           []Rule
	IgnoreRedirects bool
	PenalizeExtra   bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MatchThreshold:      0.75,
		TypeMismatchPenalty: 0.5,
		Strategy:            StrategyGreedy,
	}
}

// Validate fails fast on configuration errors.
func (o Options) Validate() error {
	if o.MatchThreshold < 0 || o.MatchThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrThresholdOutOfRange, o.MatchThreshold)
	}
	if o.TypeMismatchPenalty < 0 || o.TypeMismatchPenalty > 1 {
		return fmt.Errorf("%w: %v", ErrPenaltyOutOfRange, o.TypeMismatchPenalty)
	}
	switch o.Strategy {
	case StrategyGreedy, StrategyOptimal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, o.Strategy)
	}
	for _, r := range o.Rules {
		if !knownRules[r] {
			return fmt.Errorf("%w: %q", ErrUnknownRule, r)
		}
	}
	return nil
}

// Result is the complete outcome for one page pair: the per-request
// classification sequence and the page-level quality score. A comparison
// either produces a full Result or nothing.
type Result struct {
	Classifications []entity.ClassificationResult
	Quality         entity.PageQualityScore
}

// Compare runs the full pipeline for one page pair. It owns only its
// in-memory matrix and assignment for the duration of the call.
func Compare(pair entity.ComparisonPair, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	scorer := NewScorer(NewCanonicalizer(opts.Rules...), opts.TypeMismatchPenalty)
	matcher := NewMatcher(scorer, opts.MatchThreshold, opts.Strategy)
	differ := Differ{IgnoreRedirects: opts.IgnoreRedirects}
	quality := QualityScorer{PenalizeExtra: opts.PenalizeExtra}

	assignment := matcher.Match(pair.Current, pair.Archived)
	classifications := differ.Classify(assignment, pair.Current, pair.Archived)

	return &Result{
		Classifications: classifications,
		Quality:         quality.Score(pair.Key, classifications),
	}, nil
}
