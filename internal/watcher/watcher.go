// Package watcher follows source directories with fsnotify and hands
// settled files to a handler. New subdirectories are added to the watch
// set as they appear; dot-directories are ignored.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Nomadcxx/sportwatch/internal/logging"
)

// Handler receives files once they have settled on disk.
type Handler interface {
	HandleFile(ctx context.Context, path string) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, path string) error

func (f HandlerFunc) HandleFile(ctx context.Context, path string) error { return f(ctx, path) }

// defaultSettleDelay is how long a file must go without writes before it
// is handed to the handler. Downloads arrive over many write events; acting
// on the first one would move a half-written file.
const defaultSettleDelay = 5 * time.Second

type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	handler     Handler
	log         *logging.Logger
	recursive   bool
	settleDelay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

type Option func(*Watcher)

// WithRecursive controls whether subdirectories are watched. Default true.
func WithRecursive(recursive bool) Option {
	return func(w *Watcher) { w.recursive = recursive }
}

// WithSettleDelay overrides the quiet period before a file is handled.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) { w.settleDelay = d }
}

func New(handler Handler, log *logging.Logger, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}

	w := &Watcher{
		fsWatcher:   fsWatcher,
		handler:     handler,
		log:         log,
		recursive:   true,
		settleDelay: defaultSettleDelay,
		pending:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds the given roots (and, when recursive, their subtrees) to the
// watch set.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if w.recursive {
			if err := w.addRecursive(path); err != nil {
				return err
			}
			continue
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		w.log.Info("watcher", "watching", logging.F("path", path))
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		w.log.Info("watcher", "watching", logging.F("path", path))
		return nil
	})
}

// Start runs the event loop until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher", "filesystem watch error", logging.F("err", err.Error()))
		}
	}
}

func (w *Watcher) Close() error {
	w.cancelPending()
	return w.fsWatcher.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.recursive && !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.fsWatcher.Add(event.Name); err != nil {
					w.log.Warn("watcher", "unable to watch new directory",
						logging.F("path", event.Name), logging.F("err", err.Error()))
				} else {
					w.log.Info("watcher", "watching new directory", logging.F("path", event.Name))
				}
			}
			return
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	w.schedule(ctx, event.Name)
}

// schedule (re)arms the settle timer for a path. Every write pushes the
// timer back, so the handler only fires once writes stop.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(w.settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.log.Info("watcher", "file settled", logging.F("path", path))
		if err := w.handler.HandleFile(ctx, path); err != nil {
			w.log.Error("watcher", "handler failed", err, logging.F("path", path))
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
