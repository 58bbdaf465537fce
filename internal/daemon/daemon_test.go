package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
		Name:           "Wrestling",
		Leagues:        []config.LeagueEntry{{Name: "WWE"}},
		LeaguePatterns: []string{`\b(WWE)\b`},
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

func testHandler(t *testing.T, dest string) *FileHandler {
	t.Helper()
	org := organizer.New(dest, "", false, false, nil)
	return NewFileHandler(testPipeline(t), org, nil)
}

func TestFileHandlerCounters(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")
	if err := os.WriteFile(source, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	h := testHandler(t, filepath.Join(dir, "lib"))

	if err := h.HandleFile(t.Context(), source); err != nil {
		t.Fatalf("HandleFile: %v", err)
	}
	// Rejected files are counted but never an error.
	if err := h.HandleFile(t.Context(), filepath.Join(dir, "notes.nfo")); err != nil {
		t.Fatalf("HandleFile rejected: %v", err)
	}

	stats := h.Stats()
	if stats.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", stats.Accepted)
	}
	if stats.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", stats.Rejected)
	}
	if stats.LastProcessed.IsZero() {
		t.Error("LastProcessed not recorded")
	}
}

// blockingPlacer parks in Place until released, standing in for a long
// cross-device copy.
type blockingPlacer struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPlacer) Place(res *resolver.Result) (*organizer.Action, error) {
	close(b.entered)
	<-b.release
	return &organizer.Action{Size: 4}, nil
}

func TestStatsNotBlockedByPlacement(t *testing.T) {
	placer := &blockingPlacer{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	h := NewFileHandler(testPipeline(t), placer, nil)

	done := make(chan error, 1)
	go func() {
		done <- h.HandleFile(t.Context(), "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")
	}()
	<-placer.entered

	// Stats must answer while the placement is still in flight.
	got := make(chan Stats, 1)
	go func() { got <- h.Stats() }()
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("Stats blocked behind an in-flight placement")
	}

	close(placer.release)
	if err := <-done; err != nil {
		t.Fatalf("HandleFile: %v", err)
	}
	stats := h.Stats()
	if stats.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", stats.Accepted)
	}
	if stats.Bytes != 4 {
		t.Errorf("Bytes = %d, want 4", stats.Bytes)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(testHandler(t, t.TempDir()), nil, ":0", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}

	s.SetHealthy(false)
	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rec.Code)
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := NewServer(testHandler(t, t.TempDir()), nil, ":0", nil)

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "WWE.RAW.2024.01.15.720p.x264-GRP.mkv")
	if err := os.WriteFile(source, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	h := testHandler(t, filepath.Join(dir, "lib"))
	if err := h.HandleFile(t.Context(), source); err != nil {
		t.Fatal(err)
	}

	s := NewServer(h, nil, ":0", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var resp MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", resp.Accepted)
	}
	if resp.LastProcessed == "" {
		t.Error("LastProcessed missing")
	}
}
