// Package dictionary implements alias-table matching shared by the metadata
// resolvers: given a mapping from canonical value to alias strings, find the
// best substring match in a target string.
//
// Matching is case-insensitive, treats the scene separators '.' and '_' as
// spaces, and is longest-literal-match-wins, so a short
// alias ("WWE") never shadows a longer, more specific one ("WWE Royal
// Rumble") when both appear. Ties go to the earlier-declared entry, which is
// why Table is an ordered slice rather than a map.
package dictionary

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry maps one canonical value to its alias spellings. The canonical name
// itself is always treated as an implicit alias.
type Entry struct {
	Canonical string   `mapstructure:"name"`
	Aliases   []string `mapstructure:"aliases"`
}

// Table is an ordered alias table. Declaration order is the tie-break for
// equal-length matches.
type Table []Entry

// Span marks the matched region of the haystack so callers can excise it.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Match finds the best alias match in haystack. Among all aliases that
// match, the longest literal wins; on equal length the first-declared entry
// wins. Returns ok=false when nothing matches.
func (t Table) Match(haystack string) (canonical string, span Span, ok bool) {
	return t.match(haystack, false)
}

// MatchWord behaves like Match but only accepts alias occurrences bounded by
// non-alphanumeric characters, so "TNA" does not match inside "Antnapolis".
func (t Table) MatchWord(haystack string) (canonical string, span Span, ok bool) {
	return t.match(haystack, true)
}

func (t Table) match(haystack string, wordBounded bool) (string, Span, bool) {
	lower := fold(haystack)

	var (
		best     string
		bestSpan Span
		found    bool
	)

	for _, entry := range t {
		aliases := make([]string, 0, len(entry.Aliases)+1)
		aliases = append(aliases, entry.Canonical)
		aliases = append(aliases, entry.Aliases...)

		for _, alias := range aliases {
			if alias == "" {
				continue
			}
			idx := findAlias(lower, fold(alias), wordBounded)
			if idx < 0 {
				continue
			}
			// Strictly longer wins; equal length keeps the earlier entry.
			if !found || len(alias) > bestSpan.Len() {
				best = entry.Canonical
				bestSpan = Span{Start: idx, End: idx + len(alias)}
				found = true
			}
		}
	}

	return best, bestSpan, found
}

// Contains reports whether name is a canonical entry or one of its aliases,
// by exact (case-insensitive) comparison rather than substring search.
func (t Table) Contains(name string) bool {
	for _, entry := range t {
		if strings.EqualFold(entry.Canonical, name) {
			return true
		}
		for _, alias := range entry.Aliases {
			if strings.EqualFold(alias, name) {
				return true
			}
		}
	}
	return false
}

// Excise removes the span from s, leaving surrounding text in place.
func Excise(s string, span Span) string {
	if span.Start < 0 || span.End > len(s) || span.Start >= span.End {
		return s
	}
	return s[:span.Start] + s[span.End:]
}

// fold lowercases s and maps the scene-name separators '.' and '_' to
// spaces, so the alias "World Wrestling Entertainment" matches the filename
// token "World.Wrestling.Entertainment". Every substitution is byte-length
// preserving, which keeps spans valid against the original string: runes
// whose lowercase form has a different encoded width (Kelvin sign, dotted
// capital I) are left alone rather than shifting later offsets.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '.' || r == '_':
			return ' '
		case r < utf8.RuneSelf:
			if 'A' <= r && r <= 'Z' {
				return r + ('a' - 'A')
			}
			return r
		}
		if l := unicode.ToLower(r); utf8.RuneLen(l) == utf8.RuneLen(r) {
			return l
		}
		return r
	}, s)
}

func findAlias(haystack, needle string, wordBounded bool) int {
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		if !wordBounded || isBounded(haystack, idx, idx+len(needle)) {
			return idx
		}
		from = idx + 1
	}
}

func isBounded(s string, start, end int) bool {
	if start > 0 {
		if r := rune(s[start-1]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		if r := rune(s[end]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
