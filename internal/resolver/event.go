package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/normalize"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Event/title stage confidences.
const (
	confEventWildcard = 75
	confEventRegex    = 60
	confTitleResidual = 60
	confPart          = 80
)

// UnknownTitlePlaceholder stands in for an empty residual title.
const UnknownTitlePlaceholder = "[UNKNOWN-TITLE]"

var (
	// Part-2, Part.B, part 3
	partTokenPattern = regexp.MustCompile(`(?i)[._ -]part[._ -]?(\d{1,2}|[a-d])\b`)
	// [bracketed noise] left in the residual
	bracketedNoise = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
)

// resolveEventTitle runs last, over whatever text the earlier stages left
// behind: extracts a part token, an event name (alias table first, then
// regex inference), and finally cleans the residual into the episode title.
// A file with no event gets the slot removed entirely; "no event" is a
// valid terminal state, not a failed extraction.
func (p *Pipeline) resolveEventTitle(rec *slots.Record, st *fileState) {
	if loc := partTokenPattern.FindStringSubmatchIndex(st.working); loc != nil {
		token := st.working[loc[2]:loc[3]]
		part, err := strconv.Atoi(token)
		if err != nil {
			part = int(token[0]|0x20) - 'a' + 1
		}
		rec.Set(slots.FieldEpisodePart, strconv.Itoa(part), confPart)
		st.working = st.working[:loc[0]] + st.working[loc[1]:]
	}

	if rec.Get(slots.FieldEventName).IsUnknown() {
		p.resolveEvent(rec, st)
	}

	if rec.Get(slots.FieldEventName).IsUnknown() {
		rec.Clear(slots.FieldEventName)
		st.clearedEvent = true
	}

	if !rec.Get(slots.FieldEpisodeTitle).IsUnknown() {
		return
	}

	// Residual cleanup: re-normalize (idempotent), drop bracketed noise,
	// collapse separators into dashes.
	residual := p.rules.Normalizer.Apply(st.working)
	residual = bracketedNoise.ReplaceAllString(residual, "")
	residual = normalize.CleanSeparators(residual)
	if residual == "" {
		rec.Set(slots.FieldEpisodeTitle, UnknownTitlePlaceholder, 0)
		return
	}
	rec.Set(slots.FieldEpisodeTitle, residual, confTitleResidual)
}

// resolveEvent tries the curated event alias table, then the sport's event
// regex patterns. Either hit excises the matched text from the residual.
func (p *Pipeline) resolveEvent(rec *slots.Record, st *fileState) {
	if canonical, span, ok := p.rules.Events.MatchWord(st.working); ok {
		rec.Set(slots.FieldEventName, canonical, confEventWildcard)
		st.working = dictionary.Excise(st.working, span)
		return
	}

	for _, re := range p.rules.EventPatterns {
		loc := re.FindStringSubmatchIndex(st.working)
		if loc == nil {
			continue
		}
		name := st.working[loc[0]:loc[1]]
		if len(loc) >= 4 && loc[2] >= 0 {
			name = st.working[loc[2]:loc[3]]
		}
		name = strings.TrimSpace(normalize.CleanSeparators(name))
		if name == "" {
			continue
		}
		rec.Set(slots.FieldEventName, name, confEventRegex)
		st.working = st.working[:loc[0]] + st.working[loc[1]:]
		return
	}
}
