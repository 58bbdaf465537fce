package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/scanner"
)

// Server exposes daemon health and metrics over HTTP.
type Server struct {
	httpServer *http.Server
	handler    *FileHandler
	scanner    *scanner.PeriodicScanner
	startTime  time.Time
	mu         sync.RWMutex
	healthy    bool
	log        *logging.Logger
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Uptime    string          `json:"uptime"`
	Timestamp time.Time       `json:"timestamp"`
	Scanner   *scanner.Status `json:"scanner,omitempty"`
}

type MetricsResponse struct {
	Accepted      int64   `json:"accepted"`
	Quarantined   int64   `json:"quarantined"`
	Rejected      int64   `json:"rejected"`
	Errors        int64   `json:"errors"`
	Bytes         int64   `json:"bytes_transferred"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	LastProcessed string  `json:"last_processed,omitempty"`
}

func NewServer(handler *FileHandler, periodic *scanner.PeriodicScanner, addr string, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		handler:   handler,
		scanner:   periodic,
		startTime: time.Now(),
		healthy:   true,
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/stats", s.handleMetrics)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info("server", "health server starting", logging.F("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server error: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	healthy := s.healthy
	s.mu.RUnlock()

	scannerHealthy := true
	var scannerStatus *scanner.Status
	if s.scanner != nil {
		scannerHealthy = s.scanner.IsHealthy()
		st := s.scanner.Status()
		scannerStatus = &st
	}

	response := HealthResponse{
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
		Scanner:   scannerStatus,
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case healthy && scannerHealthy:
		response.Status = "healthy"
		w.WriteHeader(http.StatusOK)
	case healthy:
		// Scanner trouble alone keeps the daemon serving.
		response.Status = "degraded"
		w.WriteHeader(http.StatusOK)
	default:
		response.Status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	healthy := s.healthy
	s.mu.RUnlock()

	if healthy {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("not ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	stats := s.handler.Stats()

	response := MetricsResponse{
		Accepted:      stats.Accepted,
		Quarantined:   stats.Quarantined,
		Rejected:      stats.Rejected,
		Errors:        stats.Errors,
		Bytes:         stats.Bytes,
		UptimeSeconds: stats.Uptime.Seconds(),
	}
	if !stats.LastProcessed.IsZero() {
		response.LastProcessed = stats.LastProcessed.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
