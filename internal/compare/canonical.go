package compare

import (
	"regexp"
	"sort"
	"strings"
)

// Rule names one URL normalization pass. Passes always run in the order of
// AllRules regardless of the order they were enabled in, so two configs that
// enable the same set of rules canonicalize identically.
type Rule string

const (
	RuleStripScheme        Rule = "strip_scheme"
	RuleStripReplayPrefix  Rule = "strip_replay_prefix"
	RuleStripTimestamp     Rule = "strip_timestamp"
	RuleStripPort          Rule = "strip_port"
	RuleLowercaseHost      Rule = "lowercase_host"
	RuleStripTrailingSlash Rule = "strip_trailing_slash"
	RuleStripCacheBusters  Rule = "strip_cache_busters"
)

// AllRules is the full pass list in execution order.
var AllRules = []Rule{
	RuleStripScheme,
	RuleStripReplayPrefix,
	RuleStripTimestamp,
	RuleStripPort,
	RuleLowercaseHost,
	RuleStripTrailingSlash,
	RuleStripCacheBusters,
}

var knownRules = func() map[Rule]bool {
	m := make(map[Rule]bool, len(AllRules))
	for _, r := range AllRules {
		m[r] = true
	}
	return m
}()

// replayHosts are proxy hosts that replay systems prepend to the original URL.
var replayHosts = map[string]bool{
	"wayback.archive-it.org": true,
	"web.archive.org":        true,
	"webarchive.org.uk":      true,
}

var (
	// Wayback-style timestamp path segment, e.g. 20200101000000 or
	// 20200101000000im_ (the im_/if_/js_/cs_ modifiers suppress the banner
	// or rewrite mode).
	timestampSegmentRe = regexp.MustCompile(`^\d{8,14}([a-z]{2}_)?$`)
	embeddedSchemeRe   = regexp.MustCompile(`https?://`)
	epochValueRe       = regexp.MustCompile(`^\d{9,}$`)
	tokenValueRe       = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
)

// cacheBusterKeys are query keys that carry cache-busting noise rather than
// resource identity.
var cacheBusterKeys = map[string]bool{
	"_":          true,
	"cb":         true,
	"cachebust":  true,
	"cache_bust": true,
	"bust":       true,
	"rnd":        true,
	"rand":       true,
	"random":     true,
	"ts":         true,
	"timestamp":  true,
	"nocache":    true,
}

// Canonicalizer normalizes request URLs so that a live URL and its
// archive-rewritten replay collapse to the same string before comparison.
type Canonicalizer struct {
	enabled map[Rule]bool
}

// NewCanonicalizer builds a canonicalizer running the given passes. With no
// arguments every pass is enabled.
func NewCanonicalizer(rules ...Rule) *Canonicalizer {
	enabled := make(map[Rule]bool, len(AllRules))
	if len(rules) == 0 {
		rules = AllRules
	}
	for _, r := range rules {
		enabled[r] = true
	}
	return &Canonicalizer{enabled: enabled}
}

// Canonicalize applies the enabled passes in order and returns the
// normalized URL string.
func (c *Canonicalizer) Canonicalize(raw string) string {
	s := strings.TrimSpace(raw)
	if c.enabled[RuleStripScheme] {
		s = stripScheme(s)
	}
	if c.enabled[RuleStripReplayPrefix] {
		s = stripReplayPrefix(s)
	}
	if c.enabled[RuleStripTimestamp] {
		s = stripTimestampSegments(s)
	}
	if c.enabled[RuleStripPort] {
		s = stripPort(s)
	}
	if c.enabled[RuleLowercaseHost] {
		s = lowercaseHost(s)
	}
	if c.enabled[RuleStripTrailingSlash] {
		s = strings.TrimRight(s, "/")
	}
	if c.enabled[RuleStripCacheBusters] {
		s = stripCacheBusters(s)
	}
	return s
}

func stripScheme(s string) string {
	lower := strings.ToLower(s)
	for _, p := range []string{"http://", "https://", "//"} {
		if strings.HasPrefix(lower, p) {
			return s[len(p):]
		}
	}
	return s
}

// stripReplayPrefix removes the proxy host and collection segment that
// replay systems prepend, e.g.
// wayback.archive-it.org/3491/20200101000000im_/http://a.com/x ->
// a.com/x (the timestamp segment falls to stripTimestampSegments when the
// original URL was not embedded with its own scheme).
func stripReplayPrefix(s string) string {
	// An embedded scheme marks where the original URL begins.
	if locs := embeddedSchemeRe.FindAllStringIndex(s, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		if last[0] > 0 {
			return s[last[1]:]
		}
	}
	host, rest, found := strings.Cut(s, "/")
	if !found || !replayHosts[strings.ToLower(stripPort(host))] {
		return s
	}
	// Drop the collection id ("3491") or the "web" namespace that follows
	// the replay host.
	seg, tail, _ := strings.Cut(rest, "/")
	if seg == "web" || isDigits(seg) {
		return tail
	}
	return rest
}

func stripTimestampSegments(s string) string {
	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, p := range parts {
		if timestampSegmentRe.MatchString(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}

func stripPort(s string) string {
	host, rest, found := strings.Cut(s, "/")
	if i := strings.LastIndex(host, ":"); i >= 0 && isDigits(host[i+1:]) {
		host = host[:i]
	}
	if found {
		return host + "/" + rest
	}
	return host
}

func lowercaseHost(s string) string {
	host, rest, found := strings.Cut(s, "/")
	if found {
		return strings.ToLower(host) + "/" + rest
	}
	return strings.ToLower(host)
}

// stripCacheBusters drops query parameters whose key or value looks like a
// cache-busting token, and sorts the survivors so parameter order never
// affects the canonical form.
func stripCacheBusters(s string) string {
	base, query, found := strings.Cut(s, "?")
	if !found || query == "" {
		return s
	}
	var kept []string
	for _, param := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(param, "=")
		if cacheBusterKeys[strings.ToLower(key)] {
			continue
		}
		if epochValueRe.MatchString(value) || tokenValueRe.MatchString(value) {
			continue
		}
		kept = append(kept, param)
	}
	if len(kept) == 0 {
		return base
	}
	sort.Strings(kept)
	return base + "?" + strings.Join(kept, "&")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
