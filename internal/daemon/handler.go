package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/Nomadcxx/sportwatch/internal/logging"
	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
)

// Placer moves a resolved file into the library. Satisfied by
// *organizer.Organizer.
type Placer interface {
	Place(res *resolver.Result) (*organizer.Action, error)
}

// FileHandler resolves and places single files as the watcher reports them,
// keeping running counters for the metrics endpoint.
type FileHandler struct {
	pipeline  *resolver.Pipeline
	organizer Placer
	log       *logging.Logger

	mu            sync.Mutex
	accepted      int64
	quarantined   int64
	rejected      int64
	errors        int64
	bytes         int64
	lastProcessed time.Time
	startTime     time.Time
}

// Stats is a snapshot of handler counters.
type Stats struct {
	Accepted      int64
	Quarantined   int64
	Rejected      int64
	Errors        int64
	Bytes         int64
	LastProcessed time.Time
	Uptime        time.Duration
}

func NewFileHandler(pipeline *resolver.Pipeline, org Placer, log *logging.Logger) *FileHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &FileHandler{
		pipeline:  pipeline,
		organizer: org,
		log:       log,
		startTime: time.Now(),
	}
}

// HandleFile runs one file through resolve and place. Placement can be a
// long cross-device copy, so the counter lock is only taken around the
// bookkeeping; Stats stays responsive while files move.
func (h *FileHandler) HandleFile(ctx context.Context, path string) error {
	res := h.pipeline.Resolve(ctx, path)

	if res.Outcome == resolver.OutcomeRejected {
		h.log.Debug("daemon", "file rejected",
			logging.F("path", path), logging.F("reason", res.RejectReason))
		h.record(func() { h.rejected++ })
		return nil
	}

	action, err := h.organizer.Place(res)
	if err != nil {
		h.record(func() { h.errors++ })
		return err
	}

	h.record(func() {
		if res.Outcome == resolver.OutcomeQuarantined {
			h.quarantined++
		} else {
			h.accepted++
		}
		if action != nil {
			h.bytes += action.Size
		}
	})
	return nil
}

func (h *FileHandler) record(update func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastProcessed = time.Now()
	update()
}

// Stats returns a snapshot of the handler counters.
func (h *FileHandler) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Accepted:      h.accepted,
		Quarantined:   h.quarantined,
		Rejected:      h.rejected,
		Errors:        h.errors,
		Bytes:         h.bytes,
		LastProcessed: h.lastProcessed,
		Uptime:        time.Since(h.startTime),
	}
}
