package probe

import "testing"

func TestResolutionFromHeight(t *testing.T) {
	tests := []struct {
		height int
		want   string
	}{
		{2160, "4K"},
		{3840, "4K"},
		{1080, "1080p"},
		{1088, "1080p"},
		{720, "720p"},
		{480, "480p"},
		{576, "480p"},
		{360, "360p"},
		{0, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := ResolutionFromHeight(tt.height); got != tt.want {
			t.Errorf("ResolutionFromHeight(%d) = %q, want %q", tt.height, got, tt.want)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"30000/1001", 29.97002997002997},
		{"60/1", 60},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"x/y", 0},
		{"30/0", 0},
	}
	for _, tt := range tests {
		if got := parseFrameRate(tt.rate); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestProbeEmptyPath(t *testing.T) {
	f := &FFProbe{}
	if _, err := f.Probe(t.Context(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
