// Package resolver implements the multi-stage metadata extraction pipeline.
// Each stage infers one group of fields from the filename (or its directory
// path), assigns the confidence of the method that produced the value, and
// excises its matched text from the working string so later free-text stages
// never re-match it. Stages never fail a file: every fallback chain ends in
// Unknown with confidence 0.
package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/normalize"
	"github.com/Nomadcxx/sportwatch/internal/probe"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Outcome is the per-file aggregate verdict.
type Outcome int

const (
	// OutcomeAccepted means the file can be filed automatically.
	OutcomeAccepted Outcome = iota
	// OutcomeQuarantined routes the file to manual review.
	OutcomeQuarantined
	// OutcomeRejected means the extension was missing or blocked; the
	// file is left in place and never renamed.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeQuarantined:
		return "quarantined"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the fully populated output for one file: the complete slot
// record, the aggregate decision, and the verdict.
type Result struct {
	Path         string
	Record       *slots.Record
	Decision     slots.Decision
	Outcome      Outcome
	RejectReason string
}

// GroupStore is the narrow view of the release-group registry the pipeline
// needs. The registry serializes Append internally, so parallel file
// resolution can share one store.
type GroupStore interface {
	Lookup(ctx context.Context, name string) (string, bool, error)
	Append(ctx context.Context, name, source string) error
	Table(ctx context.Context) (dictionary.Table, error)
}

// Ruleset is the compiled, read-only rule state for one run: the selected
// sport's override document layered over the global config, with every
// pattern compiled up front so bad config fails at startup.
type Ruleset struct {
	Sport          string
	Leagues        dictionary.Table
	LeaguePatterns []*regexp.Regexp
	Events         dictionary.Table
	EventPatterns  []*regexp.Regexp
	Wildcards      []config.WildcardRule
	Normalizer     *normalize.Engine
	SingleSeason   bool

	Codecs      dictionary.Table
	Resolutions dictionary.Table
	FrameRates  dictionary.Table
	Formats     dictionary.Table
}

// NewRuleset compiles a sport override document against the global config.
// sport may be nil, leaving only the built-in technical dictionaries and the
// global normalization rules.
func NewRuleset(sport *config.Sport, global *config.Config) (*Ruleset, error) {
	rs := &Ruleset{
		Codecs:      codecTable,
		Resolutions: resolutionTable,
		FrameRates:  frameRateTable,
		Formats:     formatTable,
	}

	globalEngine, err := normalize.NewEngine(global.Normalize.Substitutions, global.Normalize.Filters)
	if err != nil {
		return nil, err
	}

	if sport == nil {
		rs.Normalizer = globalEngine
		return rs, nil
	}

	rs.Sport = sport.Name
	rs.Leagues = sport.LeagueTable()
	rs.Events = sport.EventTable()
	rs.Wildcards = sport.Wildcards
	rs.SingleSeason = sport.SingleSeason

	for _, pattern := range sport.LeaguePatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, err
		}
		rs.LeaguePatterns = append(rs.LeaguePatterns, re)
	}
	for _, pattern := range sport.EventPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, err
		}
		rs.EventPatterns = append(rs.EventPatterns, re)
	}

	sportEngine, err := normalize.NewEngine(sport.Substitutions, sport.Filters)
	if err != nil {
		return nil, err
	}
	// Sport rules run before global ones.
	rs.Normalizer = sportEngine.Merge(globalEngine)

	return rs, nil
}

// Options are the per-run policy switches the pipeline consults.
type Options struct {
	AllowedExtensions []string
	BlockedExtensions []string
	AutoAddGroups     bool
	AppendUnknown     bool
	ProbeEnabled      bool
	Threshold         float64
	Weights           slots.Weights
	Quarantine        slots.QuarantinePolicy
}

// OptionsFromConfig derives pipeline options from the global config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		AllowedExtensions: cfg.Extensions.Allowed,
		BlockedExtensions: cfg.Extensions.Blocked,
		AutoAddGroups:     cfg.ReleaseGroups.AutoAdd,
		AppendUnknown:     cfg.ReleaseGroups.AppendUnknown,
		ProbeEnabled:      cfg.Probe.Enabled,
		Threshold:         cfg.Pipeline.Threshold,
		Weights:           cfg.WeightTable(),
		Quarantine:        cfg.QuarantinePolicy(),
	}
}

// Pipeline drives the resolver chain for one configured run. Safe for
// concurrent use across files: the ruleset is read-only and the group store
// serializes its own writes.
type Pipeline struct {
	rules  *Ruleset
	groups GroupStore
	prober probe.Prober
	opts   Options
	log    *logging.Logger
}

// New builds a pipeline. groups and prober may be nil, disabling the
// registry paths and the probe fallback respectively.
func New(rules *Ruleset, groups GroupStore, prober probe.Prober, opts Options, log *logging.Logger) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Weights == nil {
		opts.Weights = slots.DefaultWeights()
	}
	if opts.Quarantine == nil {
		opts.Quarantine = slots.DefaultQuarantinePolicy()
	}
	return &Pipeline{rules: rules, groups: groups, prober: prober, opts: opts, log: log}
}

// fileState is the mutable scratch threaded through the stages for one file.
type fileState struct {
	// working is the normalized filename stem with every resolved field's
	// matched text excised so far.
	working string
	// singleSeason forces season_name to the league name.
	singleSeason bool
	// clearedEvent marks that the event_name slot was removed rather than
	// left Unknown: a file without an event is a valid terminal state.
	clearedEvent bool
}

// Resolve runs the full chain for one path and returns the complete record
// plus the aggregate decision. Never returns an error: per-field failures
// degrade to Unknown and only the extension check can reject a file.
func (p *Pipeline) Resolve(ctx context.Context, path string) *Result {
	res := &Result{Path: path, Record: slots.NewRecord()}
	rec := res.Record

	stem, reject := p.resolveExtension(rec, path)
	if reject != "" {
		res.Outcome = OutcomeRejected
		res.RejectReason = reject
	}

	st := &fileState{
		working:      p.rules.Normalizer.Apply(stem),
		singleSeason: p.rules.SingleSeason,
	}

	p.resolveLeague(rec, st, path)
	p.resolveDate(rec, st, path)
	p.resolveTechnical(ctx, rec, st, path)
	p.resolveGroup(ctx, rec, st)
	p.resolveEventTitle(rec, st)

	if st.clearedEvent {
		rec.FillUnresolved(slots.FieldEventName)
	} else {
		rec.FillUnresolved()
	}

	res.Decision = slots.Aggregate(rec, p.opts.Weights, p.opts.Quarantine, p.opts.Threshold)
	if res.Outcome != OutcomeRejected {
		if res.Decision.Quarantine {
			res.Outcome = OutcomeQuarantined
		} else {
			res.Outcome = OutcomeAccepted
		}
	}

	p.log.Debug("resolver", "resolved file",
		logging.F("path", path),
		logging.F("league", rec.Value(slots.FieldLeagueName)),
		logging.F("score", res.Decision.Score),
		logging.F("outcome", res.Outcome))

	return res
}

// removeFold excises the first case-insensitive occurrence of frag from s.
func removeFold(s, frag string) string {
	if frag == "" {
		return s
	}
	idx := indexFold(s, frag)
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(frag):]
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// containsAllFold reports whether every term occurs in s, case-insensitively.
func containsAllFold(s string, terms []string) bool {
	for _, term := range terms {
		if indexFold(s, term) < 0 {
			return false
		}
	}
	return true
}
