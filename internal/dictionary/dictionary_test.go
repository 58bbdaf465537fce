package dictionary

import (
	"testing"
)

func TestLongestMatchWins(t *testing.T) {
	table := Table{
		{Canonical: "WWE", Aliases: []string{"World Wrestling Entertainment"}},
		{Canonical: "WWE Royal Rumble", Aliases: []string{"Royal Rumble"}},
	}

	tests := []struct {
		haystack string
		want     string
	}{
		{"WWE.Royal.Rumble.1999", "WWE Royal Rumble"}, // separators fold to spaces
		{"WWE Royal Rumble 1999", "WWE Royal Rumble"},
		{"World Wrestling Entertainment Special", "WWE"},
		{"Royal Rumble 2005", "WWE Royal Rumble"},
	}

	for _, tt := range tests {
		t.Run(tt.haystack, func(t *testing.T) {
			got, _, ok := table.Match(tt.haystack)
			if !ok {
				t.Fatalf("Match(%q) found nothing", tt.haystack)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.haystack, got, tt.want)
			}
		})
	}
}

func TestTieBreakFirstDeclared(t *testing.T) {
	table := Table{
		{Canonical: "NWA", Aliases: []string{"ABC"}},
		{Canonical: "WCW", Aliases: []string{"XYZ"}},
	}

	// Both aliases are 3 chars; the earlier entry must win.
	got, _, ok := table.Match("ABC.and.XYZ")
	if !ok || got != "NWA" {
		t.Errorf("Match = %q (ok=%v), want NWA", got, ok)
	}
}

func TestMatchSpan(t *testing.T) {
	table := Table{{Canonical: "x264", Aliases: []string{"h264"}}}

	haystack := "Event.2012.x264.720p"
	_, span, ok := table.Match(haystack)
	if !ok {
		t.Fatal("expected match")
	}
	if haystack[span.Start:span.End] != "x264" {
		t.Errorf("span %v covers %q, want x264", span, haystack[span.Start:span.End])
	}
	if got := Excise(haystack, span); got != "Event.2012..720p" {
		t.Errorf("Excise = %q", got)
	}
}

func TestMatchSpanPastWideLowercase(t *testing.T) {
	table := Table{{Canonical: "WWE"}}

	// U+0130 lowercases to a narrower encoding; the span after it must
	// still line up with the original bytes.
	haystack := "İstanbul.WWE.RAW"
	_, span, ok := table.MatchWord(haystack)
	if !ok {
		t.Fatal("expected match")
	}
	if got := haystack[span.Start:span.End]; got != "WWE" {
		t.Errorf("span %v covers %q, want WWE", span, got)
	}
	if got := Excise(haystack, span); got != "İstanbul..RAW" {
		t.Errorf("Excise = %q", got)
	}
}

func TestMatchWordBoundary(t *testing.T) {
	table := Table{{Canonical: "TNA", Aliases: nil}}

	if _, _, ok := table.MatchWord("Antnapolis.Open.2020"); ok {
		t.Error("TNA should not match inside a word")
	}
	if _, _, ok := table.MatchWord("TNA.Impact.2009"); !ok {
		t.Error("TNA should match as a bounded token")
	}
	if _, _, ok := table.Match("Antnapolis.Open.2020"); !ok {
		t.Error("unbounded Match should still hit the substring")
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	table := Table{{Canonical: "720p", Aliases: []string{"720P", "1280x720"}}}

	got, _, ok := table.Match("event.720P.mkv")
	if !ok || got != "720p" {
		t.Errorf("Match = %q (ok=%v), want 720p", got, ok)
	}
}

func TestContains(t *testing.T) {
	table := Table{{Canonical: "VANiLLA", Aliases: []string{"vanilla-group"}}}

	if !table.Contains("vanilla") {
		t.Error("Contains should be case-insensitive on canonical names")
	}
	if !table.Contains("VANILLA-GROUP") {
		t.Error("Contains should check aliases")
	}
	if table.Contains("VAN") {
		t.Error("Contains must be exact, not substring")
	}
}

func TestNoMatch(t *testing.T) {
	table := Table{{Canonical: "WWE", Aliases: nil}}

	if _, _, ok := table.Match("completely unrelated"); ok {
		t.Error("expected no match")
	}
}
