package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
)

func testPipeline(t *testing.T) *resolver.Pipeline {
	t.Helper()

	sport := &config.Sport{
		Name: "Wrestling",
		Leagues: []config.LeagueEntry{
			{Name: "WWE"},
			{Name: "AEW"},
		},
		LeaguePatterns: []string{`\b(WWE|AEW)\b`},
	}
	cfg := config.DefaultConfig()

	rules, err := resolver.NewRuleset(sport, cfg)
	if err != nil {
		t.Fatalf("NewRuleset: %v", err)
	}

	opts := resolver.OptionsFromConfig(cfg)
	opts.ProbeEnabled = false
	return resolver.New(rules, nil, nil, opts, nil)
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScannerRun(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFiles(t, source,
		"WWE.RAW.2024.01.15.1080p.WEB-DL.x264-GROUP.mkv",
		"AEW.Dynamite.2024.02.07.720p.HDTV.x264-GROUP.mp4",
		"mystery.file.mkv",
		"release.nfo",
	)

	org := organizer.New(dest, "", false, false, nil)
	s := New(testPipeline(t), org, 2, nil)

	summary, err := s.Run(t.Context(), []string{source}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", summary.Scanned)
	}
	if summary.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", summary.Accepted)
	}
	if summary.Quarantined != 1 {
		t.Errorf("Quarantined = %d, want 1", summary.Quarantined)
	}
	if summary.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", summary.Rejected)
	}
	if summary.Failed != 0 {
		t.Errorf("Failed = %d, errors: %v", summary.Failed, summary.Errors)
	}

	// Accepted files land under <dest>/<League>/<Season>/.
	if _, err := os.Stat(filepath.Join(dest, "WWE", "Season 2024",
		"WWE.2024-01-15.RAW.WEB-DL.x264.1080p-GROUP.mkv")); err != nil {
		t.Errorf("accepted file not placed: %v", err)
	}
	// The unresolvable file goes to quarantine, the rejected one stays put.
	if _, err := os.Stat(filepath.Join(source, "release.nfo")); err != nil {
		t.Errorf("rejected file should stay in the source: %v", err)
	}
	quarantined, err := os.ReadDir(filepath.Join(dest, ".quarantine"))
	if err != nil || len(quarantined) != 1 {
		t.Errorf("quarantine dir = %v entries, err %v", len(quarantined), err)
	}
}

func TestScannerSkipsDotDirs(t *testing.T) {
	source := t.TempDir()
	writeFiles(t, source,
		"WWE.RAW.2024.01.15.720p.x264-GRP.mkv",
		filepath.Join(".quarantine", "old.file.mkv"),
		".hidden.mkv",
	)

	s := New(testPipeline(t), organizer.New(t.TempDir(), "", false, true, nil), 1, nil)
	summary, err := s.Run(t.Context(), []string{source}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Scanned != 1 {
		t.Errorf("Scanned = %d, want 1", summary.Scanned)
	}
}

func TestScannerDryRunLeavesSources(t *testing.T) {
	source := t.TempDir()
	writeFiles(t, source, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")

	org := organizer.New(t.TempDir(), "", false, true, nil)
	s := New(testPipeline(t), org, 1, nil)
	summary, err := s.Run(t.Context(), []string{source}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 1 {
		t.Fatalf("Accepted = %d, want 1", summary.Accepted)
	}
	if len(summary.Actions) != 1 || !summary.Actions[0].DryRun {
		t.Fatal("expected one dry-run action")
	}
	if _, err := os.Stat(filepath.Join(source, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")); err != nil {
		t.Error("dry run must not move the source")
	}
}

func TestScannerMissingSource(t *testing.T) {
	s := New(testPipeline(t), nil, 1, nil)
	summary, err := s.Run(t.Context(), []string{"/does/not/exist"}, nil)
	if err != nil {
		t.Fatalf("missing source should be reported, not fatal: %v", err)
	}
	if len(summary.Errors) == 0 {
		t.Error("expected an error for the inaccessible source")
	}
}

func TestScannerCancellation(t *testing.T) {
	source := t.TempDir()
	writeFiles(t, source, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	s := New(testPipeline(t), nil, 1, nil)
	if _, err := s.Run(ctx, []string{source}, nil); err == nil {
		t.Error("expected context error after cancellation")
	}
}

func TestPeriodicStatus(t *testing.T) {
	source := t.TempDir()
	writeFiles(t, source, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")

	s := New(testPipeline(t), organizer.New(t.TempDir(), "", false, true, nil), 1, nil)
	p := NewPeriodic(s, []string{source}, time.Hour, nil)

	if !p.IsHealthy() {
		t.Error("fresh periodic scanner should be healthy")
	}

	p.tick(t.Context())

	st := p.Status()
	if !st.Healthy {
		t.Errorf("status unhealthy after clean scan: %+v", st)
	}
	if st.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", st.FilesScanned)
	}
	if st.LastSuccess.IsZero() || st.LastScan.IsZero() {
		t.Error("scan timestamps not recorded")
	}
}
