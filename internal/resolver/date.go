package resolver

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/Nomadcxx/sportwatch/internal/slots"
)

// Date stage confidences.
const (
	confDateFull       = 90
	confDateIncomplete = 70
	confDateDirectory  = 50
)

// Two-digit years at or above the pivot belong to the 1900s.
const centuryPivot = 30

var (
	// 1987.04.22, 1987-04-22, 1987_04 22
	fullDateYMD = regexp.MustCompile(`\b(19\d{2}|20\d{2})[._ -](\d{1,2})[._ -](\d{1,2})\b`)
	// 22.04.1987 or 04.22.1987; first number >12 means day-first
	fullDateDMY = regexp.MustCompile(`\b(\d{1,2})[._ -](\d{1,2})[._ -](19\d{2}|20\d{2})\b`)
	// 1987.04 month-only; still the full-date stage, day stays Unknown
	monthOnly = regexp.MustCompile(`\b(19\d{2}|20\d{2})[._ -](\d{1,2})\b`)
	// 87.04.22A truncated year with optional trailing part letter
	incompleteDate = regexp.MustCompile(`\b(\d{2})[._ -](\d{2})[._ -](\d{2})([A-Da-d])?\b`)
)

// resolveDate walks the date ladder: complete patterns at 90, truncated
// two-digit years at 70, a bare year in an ancestor directory at 50, then
// Unknown. Season name is derived from whichever year wins.
func (p *Pipeline) resolveDate(rec *slots.Record, st *fileState, path string) {
	conf := 0

	switch {
	case p.matchFullDate(rec, st):
		conf = confDateFull
	case p.matchIncompleteDate(rec, st):
		conf = confDateIncomplete
	case matchDirectoryYear(rec, path):
		conf = confDateDirectory
	}

	p.deriveSeason(rec, st, conf)
}

// Each pattern is tried at every occurrence, not only the leftmost one: a
// shape-valid but out-of-range triple early in the name must not mask a
// real date later on.
func (p *Pipeline) matchFullDate(rec *slots.Record, st *fileState) bool {
	for _, loc := range fullDateYMD.FindAllStringSubmatchIndex(st.working, -1) {
		year := st.working[loc[2]:loc[3]]
		month, _ := strconv.Atoi(st.working[loc[4]:loc[5]])
		day, _ := strconv.Atoi(st.working[loc[6]:loc[7]])
		if validMonthDay(month, day) {
			setDate(rec, year, month, day, confDateFull)
			st.working = st.working[:loc[0]] + st.working[loc[1]:]
			return true
		}
	}

	for _, loc := range fullDateDMY.FindAllStringSubmatchIndex(st.working, -1) {
		first, _ := strconv.Atoi(st.working[loc[2]:loc[3]])
		second, _ := strconv.Atoi(st.working[loc[4]:loc[5]])
		year := st.working[loc[6]:loc[7]]
		month, day := first, second
		if first > 12 {
			month, day = second, first
		}
		if validMonthDay(month, day) {
			setDate(rec, year, month, day, confDateFull)
			st.working = st.working[:loc[0]] + st.working[loc[1]:]
			return true
		}
	}

	for _, loc := range monthOnly.FindAllStringSubmatchIndex(st.working, -1) {
		year := st.working[loc[2]:loc[3]]
		month, _ := strconv.Atoi(st.working[loc[4]:loc[5]])
		if month >= 1 && month <= 12 {
			// Day stays Unknown rather than defaulting to the 1st.
			rec.Set(slots.FieldAirYear, year, confDateFull)
			rec.Set(slots.FieldAirMonth, fmt.Sprintf("%02d", month), confDateFull)
			st.working = st.working[:loc[0]] + st.working[loc[1]:]
			return true
		}
	}

	return false
}

func (p *Pipeline) matchIncompleteDate(rec *slots.Record, st *fileState) bool {
	for _, loc := range incompleteDate.FindAllStringSubmatchIndex(st.working, -1) {
		yy, _ := strconv.Atoi(st.working[loc[2]:loc[3]])
		month, _ := strconv.Atoi(st.working[loc[4]:loc[5]])
		day, _ := strconv.Atoi(st.working[loc[6]:loc[7]])
		if !validMonthDay(month, day) {
			continue
		}

		year := 2000 + yy
		if yy >= centuryPivot {
			year = 1900 + yy
		}
		setDate(rec, strconv.Itoa(year), month, day, confDateIncomplete)

		if loc[8] >= 0 {
			letter := st.working[loc[8]]
			part := int(letter|0x20) - 'a' + 1 // A -> 1, B -> 2, ...
			rec.Set(slots.FieldEpisodePart, strconv.Itoa(part), confPart)
		}

		st.working = st.working[:loc[0]] + st.working[loc[1]:]
		return true
	}
	return false
}

// matchDirectoryYear scans ancestor directory names for a bare 4-digit year.
func matchDirectoryYear(rec *slots.Record, path string) bool {
	dir := filepath.Dir(path)
	for dir != "." && dir != string(filepath.Separator) && dir != "" {
		name := filepath.Base(dir)
		if yearDirPattern.MatchString(name) {
			rec.Set(slots.FieldAirYear, name, confDateDirectory)
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

func setDate(rec *slots.Record, year string, month, day, conf int) {
	rec.Set(slots.FieldAirYear, year, conf)
	rec.Set(slots.FieldAirMonth, fmt.Sprintf("%02d", month), conf)
	rec.Set(slots.FieldAirDay, fmt.Sprintf("%02d", day), conf)
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// deriveSeason fills season_name from the resolved year ("Season 1987"),
// or from the league name itself for single-season promotions. A wildcard
// that already forced a season wins: Set never overwrites.
func (p *Pipeline) deriveSeason(rec *slots.Record, st *fileState, dateConf int) {
	if st.singleSeason {
		if league := rec.Get(slots.FieldLeagueName); !league.IsUnknown() {
			rec.Set(slots.FieldSeasonName, league.Value(), league.Confidence())
		}
		return
	}
	if year := rec.Get(slots.FieldAirYear); !year.IsUnknown() && dateConf > 0 {
		rec.Set(slots.FieldSeasonName, "Season "+year.Value(), dateConf)
	}
}
