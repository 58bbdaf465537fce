package resolver

import (
	"testing"

	"github.com/Nomadcxx/sportwatch/internal/slots"
)

func TestDateLadder(t *testing.T) {
	p := newTestPipeline(t, nil)

	tests := []struct {
		name  string
		path  string
		year  string
		month string
		day   string
		conf  int
	}{
		{"full date", "WWE.RAW.1987.04.22.mkv", "1987", "04", "22", 90},
		{"full date day-first", "WWE.RAW.22.04.1987.mkv", "1987", "04", "22", 90},
		{"month only keeps day unknown", "WWE.Rivalries.2014.11.mkv", "2014", "11", slots.Unknown, 90},
		{"invalid triple before real date", "WWE.RAW.2012.13.13.2024.01.15.mkv", "2024", "01", "15", 90},
		{"truncated year pre-pivot", "WWE.Superstars.87.04.22.mkv", "1987", "04", "22", 70},
		{"invalid truncated triple before real one", "WWE.Superstars.87.13.40.87.04.22.mkv", "1987", "04", "22", 70},
		{"truncated year post-pivot", "WWE.RAW.04.01.12.mkv", "2004", "01", "12", 70},
		{"directory year", "/library/WWE/1987/superstars.mkv", "1987", slots.Unknown, slots.Unknown, 50},
		{"fallback", "/library/WWE/superstars.mkv", slots.Unknown, slots.Unknown, slots.Unknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := p.Resolve(t.Context(), tt.path).Record
			if got := rec.Value(slots.FieldAirYear); got != tt.year {
				t.Errorf("air_year = %q, want %q", got, tt.year)
			}
			if got := rec.Value(slots.FieldAirMonth); got != tt.month {
				t.Errorf("air_month = %q, want %q", got, tt.month)
			}
			if got := rec.Value(slots.FieldAirDay); got != tt.day {
				t.Errorf("air_day = %q, want %q", got, tt.day)
			}
			if got := rec.Confidence(slots.FieldAirYear); got != tt.conf {
				t.Errorf("confidence = %d, want %d", got, tt.conf)
			}
		})
	}
}

func TestDatePartLetter(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWF.Superstars.87.04.22A.mkv").Record
	if got := rec.Value(slots.FieldAirYear); got != "1987" {
		t.Errorf("air_year = %q, want 1987", got)
	}
	if got := rec.Confidence(slots.FieldAirYear); got != 70 {
		t.Errorf("date confidence = %d, want 70", got)
	}
	if got := rec.Value(slots.FieldEpisodePart); got != "1" {
		t.Errorf("episode_part = %q, want 1 (A maps to part 1)", got)
	}
	if got := rec.Confidence(slots.FieldEpisodePart); got != 80 {
		t.Errorf("part confidence = %d, want 80", got)
	}

	rec = p.Resolve(t.Context(), "WWF.Superstars.87.04.22b.mkv").Record
	if got := rec.Value(slots.FieldEpisodePart); got != "2" {
		t.Errorf("episode_part = %q, want 2 (b maps to part 2)", got)
	}
}

func TestSeasonDerivedFromYear(t *testing.T) {
	p := newTestPipeline(t, nil)

	tests := []struct {
		path   string
		season string
		conf   int
	}{
		{"WWE.RAW.1987.04.22.mkv", "Season 1987", 90},
		{"/library/WWE/1987/superstars.mkv", "Season 1987", 50},
		{"/library/WWE/superstars.mkv", slots.Unknown, 0},
	}
	for _, tt := range tests {
		rec := p.Resolve(t.Context(), tt.path).Record
		if got := rec.Value(slots.FieldSeasonName); got != tt.season {
			t.Errorf("%s: season = %q, want %q", tt.path, got, tt.season)
		}
		if got := rec.Confidence(slots.FieldSeasonName); got != tt.conf {
			t.Errorf("%s: season confidence = %d, want %d", tt.path, got, tt.conf)
		}
	}
}
