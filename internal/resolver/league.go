package resolver

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// League stage confidences, one per rung of the fallback ladder.
const (
	confLeagueRegex     = 90
	confLeagueOverride  = 70
	confLeagueDirectory = 50
)

// resolveLeague walks the league ladder: curated regex patterns, then the
// alias table, then wildcard overrides, then directory inference. Wildcards
// run last even though they score lower, because they are curated per-file
// knowledge allowed to overwrite regex-derived values.
func (p *Pipeline) resolveLeague(rec *slots.Record, st *fileState, path string) {
	for _, re := range p.rules.LeaguePatterns {
		loc := re.FindStringSubmatchIndex(st.working)
		if loc == nil {
			continue
		}
		start, end := loc[0], loc[1]
		name := st.working[start:end]
		// A capture group, when present, names the league; the whole
		// match is still excised.
		if len(loc) >= 4 && loc[2] >= 0 {
			name = st.working[loc[2]:loc[3]]
		}
		rec.Set(slots.FieldLeagueName, name, confLeagueRegex)
		st.working = st.working[:start] + st.working[end:]
		break
	}

	if rec.Get(slots.FieldLeagueName).IsUnknown() {
		if canonical, span, ok := p.rules.Leagues.Match(st.working); ok {
			rec.Set(slots.FieldLeagueName, canonical, confLeagueOverride)
			st.working = dictionary.Excise(st.working, span)
		}
	}

	p.applyWildcards(rec, st)

	if rec.Get(slots.FieldLeagueName).IsUnknown() {
		if league := leagueFromPath(path); league != "" {
			rec.Set(slots.FieldLeagueName, league, confLeagueDirectory)
		}
	}
}

// applyWildcards evaluates the curated wildcard rules in declaration order;
// the first rule whose every trigger substring appears in the working name
// wins and short-circuits. Its sparse attribute set is merged over the
// record, overriding regex-derived values.
func (p *Pipeline) applyWildcards(rec *slots.Record, st *fileState) {
	for _, rule := range p.rules.Wildcards {
		if !containsAllFold(st.working, rule.Contains) {
			continue
		}

		attrs := rule.Set
		if attrs.LeagueName != "" {
			rec.Override(slots.FieldLeagueName, attrs.LeagueName, confLeagueOverride)
		}
		if attrs.EventName != "" {
			rec.Override(slots.FieldEventName, attrs.EventName, confEventWildcard)
		}
		if attrs.SeasonName != "" {
			rec.Override(slots.FieldSeasonName, attrs.SeasonName, confLeagueOverride)
		}
		if attrs.EpisodeTitle != "" {
			rec.Override(slots.FieldEpisodeTitle, attrs.EpisodeTitle, confTitleResidual)
		}
		if attrs.SingleSeason {
			st.singleSeason = true
		}
		// The trigger text is resolved-field evidence like any regex match;
		// strip it so it cannot resurface in the residual title.
		for _, frag := range rule.Contains {
			st.working = removeFold(st.working, frag)
		}
		for _, frag := range attrs.RemoveFromFilename {
			st.working = removeFold(st.working, frag)
		}
		return
	}
}

// Directory components that are layout artifacts, not league names.
var yearDirPattern = regexp.MustCompile(`^(19|20)\d{2}$`)

// leagueFromPath infers the league from ancestor directory names: the
// library layout puts the league at the top of the path, so the nearest
// ancestor that is not a season/year component is taken as-is.
func leagueFromPath(path string) string {
	dir := filepath.Dir(path)
	for dir != "." && dir != string(filepath.Separator) && dir != "" {
		name := filepath.Base(dir)
		if name == "" || name == "." {
			return ""
		}
		if !yearDirPattern.MatchString(name) && !strings.HasPrefix(strings.ToLower(name), "season") {
			return name
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
