// Package daemon runs the long-lived service: a filesystem watcher for new
// files, a periodic full scan as a safety net, and an HTTP health endpoint.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/scanner"
	"github.com/Nomadcxx/sportwatch/internal/watcher"
)

// Daemon coordinates the watcher, periodic scanner, and health server.
type Daemon struct {
	watcher  *watcher.Watcher
	periodic *scanner.PeriodicScanner
	server   *Server
	sources  []string
	log      *logging.Logger
}

func New(w *watcher.Watcher, periodic *scanner.PeriodicScanner, server *Server, sources []string, log *logging.Logger) *Daemon {
	if log == nil {
		log = logging.Nop()
	}
	return &Daemon{
		watcher:  w,
		periodic: periodic,
		server:   server,
		sources:  sources,
		log:      log,
	}
}

// Run starts all daemon components and blocks until a shutdown signal or
// the context is cancelled. Any component failing stops the daemon.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.watcher.Watch(d.sources); err != nil {
		return fmt.Errorf("watch sources: %w", err)
	}

	errChan := make(chan error, 3)

	go func() {
		errChan <- d.watcher.Start(ctx)
	}()
	if d.periodic != nil {
		go func() {
			errChan <- d.periodic.Start(ctx)
		}()
	}
	if d.server != nil {
		go func() {
			errChan <- d.server.Start()
		}()
	}

	d.log.Info("daemon", "sportwatch daemon started", logging.F("sources", len(d.sources)))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errChan:
	}

	return d.shutdown(runErr)
}

func (d *Daemon) shutdown(runErr error) error {
	d.log.Info("daemon", "shutting down")

	if d.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			d.log.Warn("daemon", "health server shutdown error", logging.F("err", err.Error()))
		}
	}
	if err := d.watcher.Close(); err != nil {
		d.log.Warn("daemon", "watcher close error", logging.F("err", err.Error()))
	}

	d.log.Info("daemon", "sportwatch daemon stopped")
	return runErr
}
