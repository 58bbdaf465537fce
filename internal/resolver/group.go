package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/dictionary"
	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/registry"
	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Release-group stage confidences.
const (
	confGroupDictionary = 90
	confGroupRegex      = 70
	confGroupMarker     = 50
)

// UnknownGroupMarker is appended to assembled names in place of a group
// when the append_unknown policy is on.
const UnknownGroupMarker = "UnKn0wn"

// Conventional scene tag: dash-delimited trailing token.
var trailingGroupPattern = regexp.MustCompile(`-([A-Za-z0-9]{2,})$`)

// resolveGroup resolves the uploader tag. Known groups from the registry
// match anywhere in the name at 90; otherwise the conventional trailing
// dash token is taken at 70 and, under auto_add, registered so the next
// run recognizes it at dictionary confidence. With no token at all the
// append_unknown policy substitutes the marker, else the field stays empty.
func (p *Pipeline) resolveGroup(ctx context.Context, rec *slots.Record, st *fileState) {
	if p.groups != nil {
		table, err := p.groups.Table(ctx)
		if err != nil {
			p.log.Warn("registry", "group table unavailable", logging.F("err", err))
		} else if canonical, span, ok := table.MatchWord(st.working); ok {
			rec.Set(slots.FieldReleaseGroup, canonical, confGroupDictionary)
			st.working = dictionary.Excise(st.working, span)
			return
		}
	}

	trimmed := strings.TrimRight(st.working, " ._")
	if loc := trailingGroupPattern.FindStringSubmatchIndex(trimmed); loc != nil {
		token := trimmed[loc[2]:loc[3]]
		st.working = trimmed[:loc[0]]

		if p.groups != nil {
			// Exact lookup recovers the registered spelling even when
			// the table snapshot missed (fresh registration mid-batch).
			if canonical, ok, err := p.groups.Lookup(ctx, token); err == nil && ok {
				rec.Set(slots.FieldReleaseGroup, canonical, confGroupRegex)
				return
			}
			if p.opts.AutoAddGroups {
				if err := p.groups.Append(ctx, token, registry.SourceAuto); err != nil {
					p.log.Warn("registry", "auto-add failed",
						logging.F("group", token), logging.F("err", err))
				}
			}
		}
		rec.Set(slots.FieldReleaseGroup, token, confGroupRegex)
		return
	}

	if p.opts.AppendUnknown {
		rec.Set(slots.FieldReleaseGroup, UnknownGroupMarker, confGroupMarker)
	}
	// Otherwise the field contributes nothing: Unknown, confidence 0.
}
