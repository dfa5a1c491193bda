package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/reyesayala/wa-network-request-compare/internal/compare"
)

// CompareFile is the YAML comparison-options file. Every field is optional;
// omitted fields keep the documented defaults.
type CompareFile struct {
	MatchThreshold      *float64 `yaml:"match_threshold"`
	TypeMismatchPenalty *float64 `yaml:"type_mismatch_penalty"`
	MatchingStrategy    string   `yaml:"matching_strategy"`
	Canonicalization    []string `yaml:"canonicalization_rules"`
	IgnoreRedirects     bool     `yaml:"ignore_redirects"`
	PenalizeExtra       bool     `yaml:"penalize_extra"`
}

// LoadCompareOptions reads a YAML options file and merges it over the
// defaults. An empty path returns the defaults unchanged. The result is
// validated so configuration errors fail before any comparison runs.
func LoadCompareOptions(path string) (compare.Options, error) {
	opts := compare.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading compare options %s: %w", path, err)
	}
	var file CompareFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("parsing compare options %s: %w", path, err)
	}

	if file.MatchThreshold != nil {
		opts.MatchThreshold = *file.MatchThreshold
	}
	if file.TypeMismatchPenalty != nil {
		opts.TypeMismatchPenalty = *file.TypeMismatchPenalty
	}
	if file.MatchingStrategy != "" {
		opts.Strategy = compare.Strategy(file.MatchingStrategy)
	}
	for _, name := range file.Canonicalization {
		opts.Rules = append(opts.Rules, compare.Rule(name))
	}
	opts.IgnoreRedirects = file.IgnoreRedirects
	opts.PenalizeExtra = file.PenalizeExtra

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
