// Package normalize applies configuration-driven substitution and filter
// rules to raw filenames before any metadata extraction runs.
//
// Rules are applied in declaration order: substitutions first, then filters.
// Applying the same rule set to an already-normalized string is a no-op,
// which lets later pipeline stages re-run normalization safely.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is a single find/replace substitution. Match is treated as a literal
// (case-insensitive) unless Regex is set, in which case it is compiled as a
// regular expression. Replace is always a literal.
type Rule struct {
	Match   string `mapstructure:"match"`
	Replace string `mapstructure:"replace"`
	Regex   bool   `mapstructure:"regex"`
}

// Engine holds compiled substitution and filter rules.
type Engine struct {
	subs    []compiledRule
	filters []*regexp.Regexp
}

type compiledRule struct {
	pattern *regexp.Regexp
	replace string
}

// NewEngine compiles the given rules. An invalid regex in any rule is a
// configuration error and fails the whole engine, matching startup-time
// validation semantics: bad config is fatal, not a per-file problem.
func NewEngine(subs []Rule, filters []string) (*Engine, error) {
	e := &Engine{}

	for _, rule := range subs {
		if rule.Match == "" {
			continue
		}
		expr := rule.Match
		if !rule.Regex {
			expr = regexp.QuoteMeta(rule.Match)
		}
		pattern, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("invalid substitution pattern %q: %w", rule.Match, err)
		}
		e.subs = append(e.subs, compiledRule{pattern: pattern, replace: rule.Replace})
	}

	for _, f := range filters {
		if f == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(f))
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", f, err)
		}
		e.filters = append(e.filters, pattern)
	}

	return e, nil
}

// Apply runs all substitutions in order, then removes every filter match.
// Later rules operate on the output of earlier ones. Rules that match
// nothing are no-ops.
func (e *Engine) Apply(s string) string {
	for _, rule := range e.subs {
		s = rule.pattern.ReplaceAllLiteralString(s, rule.replace)
	}
	for _, pattern := range e.filters {
		s = pattern.ReplaceAllLiteralString(s, "")
	}
	return s
}

// Merge returns an engine that applies this engine's rules followed by
// other's. Used to layer global rules under sport-specific ones.
func (e *Engine) Merge(other *Engine) *Engine {
	if other == nil {
		return e
	}
	merged := &Engine{
		subs:    append(append([]compiledRule{}, e.subs...), other.subs...),
		filters: append(append([]*regexp.Regexp{}, e.filters...), other.filters...),
	}
	return merged
}

// CleanSeparators collapses runs of separator characters (whitespace, dots,
// underscores) into a single dash and trims leading/trailing separators.
// Used by the title resolver to tidy residual text.
func CleanSeparators(s string) string {
	s = separatorRun.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var (
	separatorRun = regexp.MustCompile(`[\s._]+`)
	dashRun      = regexp.MustCompile(`-{2,}`)
)
