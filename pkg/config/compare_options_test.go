package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/reyesayala/wa-network-request-compare/internal/compare"
)

func writeOptionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compare.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing options file: %v", err)
	}
	return path
}

func TestLoadCompareOptionsEmptyPathIsDefaults(t *testing.T) {
	opts, err := LoadCompareOptions("")
	if err != nil {
		t.Fatalf("LoadCompareOptions: %v", err)
	}
	if !reflect.DeepEqual(opts, compare.DefaultOptions()) {
		t.Errorf("opts = %+v, want defaults", opts)
	}
}

func TestLoadCompareOptionsOverrides(t *testing.T) {
	path := writeOptionsFile(t, `
match_threshold: 0.9
type_mismatch_penalty: 0.25
matching_strategy: optimal
canonicalization_rules:
  - strip_scheme
  - strip_timestamp
ignore_redirects: true
penalize_extra: true
`)

	opts, err := LoadCompareOptions(path)
	if err != nil {
		t.Fatalf("LoadCompareOptions: %v", err)
	}
	if opts.MatchThreshold != 0.9 || opts.TypeMismatchPenalty != 0.25 {
		t.Errorf("numeric overrides = %+v", opts)
	}
	if opts.Strategy != compare.StrategyOptimal {
		t.Errorf("Strategy = %s, want optimal", opts.Strategy)
	}
	if !opts.IgnoreRedirects || !opts.PenalizeExtra {
		t.Errorf("flags = %+v", opts)
	}
	wantRules := []compare.Rule{compare.RuleStripScheme, compare.RuleStripTimestamp}
	if !reflect.DeepEqual(opts.Rules, wantRules) {
		t.Errorf("Rules = %v, want %v", opts.Rules, wantRules)
	}
}

func TestLoadCompareOptionsPartialFileKeepsDefaults(t *testing.T) {
	path := writeOptionsFile(t, "match_threshold: 0.6\n")

	opts, err := LoadCompareOptions(path)
	if err != nil {
		t.Fatalf("LoadCompareOptions: %v", err)
	}
	defaults := compare.DefaultOptions()
	if opts.MatchThreshold != 0.6 {
		t.Errorf("MatchThreshold = %v", opts.MatchThreshold)
	}
	if opts.TypeMismatchPenalty != defaults.TypeMismatchPenalty || opts.Strategy != defaults.Strategy {
		t.Errorf("untouched fields changed: %+v", opts)
	}
	// An explicit zero override is honored, distinct from an omitted field.
	path = writeOptionsFile(t, "type_mismatch_penalty: 0\n")
	opts, err = LoadCompareOptions(path)
	if err != nil {
		t.Fatalf("LoadCompareOptions: %v", err)
	}
	if opts.TypeMismatchPenalty != 0 {
		t.Errorf("TypeMismatchPenalty = %v, want explicit 0", opts.TypeMismatchPenalty)
	}
}

func TestLoadCompareOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad threshold", "match_threshold: 1.5\n", compare.ErrThresholdOutOfRange},
		{"bad penalty", "type_mismatch_penalty: -1\n", compare.ErrPenaltyOutOfRange},
		{"bad strategy", "matching_strategy: fuzzy\n", compare.ErrUnknownStrategy},
		{"bad rule name", "canonicalization_rules:\n  - strip_everything\n", compare.ErrUnknownRule},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeOptionsFile(t, tc.content)
			if _, err := LoadCompareOptions(path); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadCompareOptionsMissingFile(t *testing.T) {
	if _, err := LoadCompareOptions(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("want error for missing options file")
	}
}
