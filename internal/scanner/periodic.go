package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nomadcxx/sportwatch/internal/logging"
)

// PeriodicScanner runs full source scans on an interval to catch files the
// watcher missed.
type PeriodicScanner struct {
	scanner  *Scanner
	sources  []string
	interval time.Duration
	log      *logging.Logger

	mu           sync.Mutex
	scanning     bool
	lastScan     time.Time
	lastSuccess  time.Time
	lastError    error
	lastSummary  *Summary
	skippedTicks int64
	healthy      bool
}

// Status is the periodic scanner state reported by the health endpoint.
type Status struct {
	Healthy      bool      `json:"healthy"`
	Scanning     bool      `json:"scanning"`
	LastScan     time.Time `json:"last_scan"`
	LastSuccess  time.Time `json:"last_success"`
	LastError    string    `json:"last_error,omitempty"`
	SkippedTicks int64     `json:"skipped_ticks"`
	FilesScanned int       `json:"files_scanned"`
}

// NewPeriodic wraps a scanner in an interval loop over the given sources.
func NewPeriodic(s *Scanner, sources []string, interval time.Duration, log *logging.Logger) *PeriodicScanner {
	if log == nil {
		log = logging.Nop()
	}
	return &PeriodicScanner{
		scanner:  s,
		sources:  sources,
		interval: interval,
		log:      log,
		healthy:  true,
	}
}

// IsHealthy reports whether the last scan completed without error.
func (p *PeriodicScanner) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy
}

// Status returns the current state for health reporting.
func (p *PeriodicScanner) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Status{
		Healthy:      p.healthy,
		Scanning:     p.scanning,
		LastScan:     p.lastScan,
		LastSuccess:  p.lastSuccess,
		SkippedTicks: p.skippedTicks,
	}
	if p.lastError != nil {
		st.LastError = p.lastError.Error()
	}
	if p.lastSummary != nil {
		st.FilesScanned = p.lastSummary.Scanned
	}
	return st
}

// Start begins the scan loop. Blocks until the context is cancelled.
func (p *PeriodicScanner) Start(ctx context.Context) error {
	p.log.Info("scanner", "periodic scanner starting",
		logging.F("interval", p.interval.String()),
		logging.F("sources", len(p.sources)))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("scanner", "periodic scanner stopped")
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *PeriodicScanner) tick(ctx context.Context) {
	p.mu.Lock()
	if p.scanning {
		p.skippedTicks++
		p.mu.Unlock()
		p.log.Warn("scanner", "scan skipped, previous scan still running",
			logging.F("skipped_ticks", p.skippedTicks))
		return
	}
	p.scanning = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.scanning = false
		p.lastScan = time.Now()
		p.mu.Unlock()
	}()

	summary, err := p.runScan(ctx)

	p.mu.Lock()
	p.lastSummary = summary
	if err != nil {
		p.lastError = err
		p.healthy = false
	} else {
		p.lastSuccess = time.Now()
		p.lastError = nil
		p.healthy = true
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error("scanner", "periodic scan failed", err)
	}
}

func (p *PeriodicScanner) runScan(ctx context.Context) (summary *Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panic: %v", r)
			p.log.Error("scanner", "panic during periodic scan", err)
		}
	}()

	start := time.Now()
	p.log.Info("scanner", "periodic scan starting")

	summary, err = p.scanner.Run(ctx, p.sources, nil)
	if err != nil {
		return summary, err
	}

	p.log.Info("scanner", "periodic scan complete",
		logging.F("duration_ms", time.Since(start).Milliseconds()),
		logging.F("scanned", summary.Scanned),
		logging.F("accepted", summary.Accepted),
		logging.F("quarantined", summary.Quarantined),
		logging.F("rejected", summary.Rejected),
		logging.F("failed", summary.Failed))

	return summary, nil
}
