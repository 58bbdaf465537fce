// Package scanner walks source directories and pushes every file it finds
// through the resolve/place pipeline using a bounded worker pool.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
)

// Summary contains statistics from one scan run.
type Summary struct {
	Scanned     int
	Accepted    int
	Quarantined int
	Rejected    int
	Failed      int
	Bytes       int64
	Duration    time.Duration
	Actions     []*organizer.Action
	Results     []*resolver.Result
	Errors      []error
}

// Progress reports progress during a scan.
type Progress struct {
	FilesScanned int
	CurrentPath  string
	SourcesDone  int
	SourcesTotal int
}

// ProgressCallback is called periodically during scanning.
type ProgressCallback func(Progress)

// progressReportInterval controls how often progress is reported.
const progressReportInterval = 10

// Scanner resolves and places every file under the configured sources.
type Scanner struct {
	pipeline  *resolver.Pipeline
	organizer *organizer.Organizer
	workers   int
	log       *logging.Logger
}

// New builds a scanner. workers <= 0 defaults to the CPU count.
func New(pipeline *resolver.Pipeline, org *organizer.Organizer, workers int, log *logging.Logger) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Scanner{pipeline: pipeline, organizer: org, workers: workers, log: log}
}

// Run walks each source tree, resolves every regular file, and places the
// accepted and quarantined ones. Files that the resolver rejects are counted
// but never touched. Dot-directories are skipped so a quarantine directory
// inside a source is not re-ingested.
func (s *Scanner) Run(ctx context.Context, sources []string, onProgress ProgressCallback) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	var mu sync.Mutex
	var wg sync.WaitGroup

	fileChan := make(chan string, s.workers*2)

	var runErr error
	var errOnce sync.Once

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					errOnce.Do(func() { runErr = ctx.Err() })
					return
				case path, ok := <-fileChan:
					if !ok {
						return
					}
					s.processFile(ctx, path, summary, &mu, onProgress)
				}
			}
		}()
	}

	sourcesDone := 0
	feed := func(source string) error {
		if _, err := os.Stat(source); err != nil {
			return fmt.Errorf("source not accessible: %s: %w", source, err)
		}
		return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, fmt.Errorf("walk %s: %w", path, err))
				mu.Unlock()
				return nil
			}
			if info.IsDir() {
				if path != source && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), ".") {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case fileChan <- path:
			}
			return nil
		})
	}

	for _, source := range sources {
		if err := feed(source); err != nil {
			if ctx.Err() != nil {
				break
			}
			mu.Lock()
			summary.Errors = append(summary.Errors, err)
			mu.Unlock()
		}
		sourcesDone++
		if onProgress != nil {
			mu.Lock()
			onProgress(Progress{
				FilesScanned: summary.Scanned,
				SourcesDone:  sourcesDone,
				SourcesTotal: len(sources),
			})
			mu.Unlock()
		}
	}
	close(fileChan)
	wg.Wait()

	summary.Duration = time.Since(start)
	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}
	if runErr != nil {
		return summary, runErr
	}
	return summary, nil
}

// processFile runs one file through resolve and place, recording the outcome.
func (s *Scanner) processFile(ctx context.Context, path string, summary *Summary, mu *sync.Mutex, onProgress ProgressCallback) {
	res := s.pipeline.Resolve(ctx, path)

	var action *organizer.Action
	var placeErr error
	if res.Outcome != resolver.OutcomeRejected && s.organizer != nil {
		action, placeErr = s.organizer.Place(res)
	}

	mu.Lock()
	defer mu.Unlock()

	summary.Scanned++
	summary.Results = append(summary.Results, res)

	switch {
	case placeErr != nil:
		summary.Failed++
		summary.Errors = append(summary.Errors, fmt.Errorf("place %s: %w", path, placeErr))
		s.log.Error("scanner", "failed to place file", placeErr, logging.F("path", path))
	case res.Outcome == resolver.OutcomeRejected:
		summary.Rejected++
	case res.Outcome == resolver.OutcomeQuarantined:
		summary.Quarantined++
	default:
		summary.Accepted++
	}
	if action != nil {
		summary.Actions = append(summary.Actions, action)
		summary.Bytes += action.Size
	}

	if onProgress != nil && summary.Scanned%progressReportInterval == 0 {
		onProgress(Progress{FilesScanned: summary.Scanned, CurrentPath: path})
	}
}
