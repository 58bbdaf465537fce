package resolver

import (
	"testing"

	"github.com/Nomadcxx/sportwatch/internal/slots"
)

func TestEventAliasTable(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.Royal.Rumble.2005.01.30.720p.mkv").Record
	if got := rec.Value(slots.FieldEventName); got != "Royal Rumble" {
		t.Errorf("event_name = %q, want Royal Rumble", got)
	}
	if got := rec.Confidence(slots.FieldEventName); got != 75 {
		t.Errorf("confidence = %d, want alias-table 75", got)
	}
}

func TestEventRegexInference(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.Wrestlemania.38.2022.04.02.1080p.mkv").Record
	if got := rec.Value(slots.FieldEventName); got != "Wrestlemania-38" {
		t.Errorf("event_name = %q, want Wrestlemania-38", got)
	}
	if got := rec.Confidence(slots.FieldEventName); got != 60 {
		t.Errorf("confidence = %d, want regex 60", got)
	}
}

func TestEventAbsentRemovesSlot(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.RAW.2024.01.01.720p.mkv").Record
	if rec.Get(slots.FieldEventName).Filled() {
		t.Errorf("event_name should be removed, got %q", rec.Value(slots.FieldEventName))
	}
}

func TestPartToken(t *testing.T) {
	p := newTestPipeline(t, nil)

	tests := []struct {
		path string
		part string
	}{
		{"WWE.Royal.Rumble.2005.01.30.Part.2.720p.mkv", "2"},
		{"WWE.Royal.Rumble.2005.01.30.part-b.720p.mkv", "2"},
	}
	for _, tt := range tests {
		rec := p.Resolve(t.Context(), tt.path).Record
		if got := rec.Value(slots.FieldEpisodePart); got != tt.part {
			t.Errorf("%s: episode_part = %q, want %q", tt.path, got, tt.part)
		}
		if got := rec.Confidence(slots.FieldEpisodePart); got != 80 {
			t.Errorf("%s: part confidence = %d, want 80", tt.path, got)
		}
	}
}

func TestTitleResidualCleanup(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.Judgment.Day.2004.05.16.x264.720p.mkv").Record
	if got := rec.Value(slots.FieldEpisodeTitle); got != "Judgment-Day" {
		t.Errorf("episode_title = %q, want Judgment-Day", got)
	}
	if got := rec.Confidence(slots.FieldEpisodeTitle); got != 60 {
		t.Errorf("confidence = %d, want residual 60", got)
	}
}

func TestTitlePlaceholderWhenEmpty(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.2024.01.01.720p.mkv").Record
	if got := rec.Value(slots.FieldEpisodeTitle); got != UnknownTitlePlaceholder {
		t.Errorf("episode_title = %q, want %q", got, UnknownTitlePlaceholder)
	}
	if got := rec.Confidence(slots.FieldEpisodeTitle); got != 0 {
		t.Errorf("placeholder confidence = %d, want 0", got)
	}
}

func TestTitleDropsBracketedNoise(t *testing.T) {
	p := newTestPipeline(t, nil)

	rec := p.Resolve(t.Context(), "WWE.Main.Event.2024.01.01.[eztv].720p.mkv").Record
	if got := rec.Value(slots.FieldEpisodeTitle); got != "Main-Event" {
		t.Errorf("episode_title = %q, want Main-Event", got)
	}
}
