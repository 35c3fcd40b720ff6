package analytics

import (
	"context"
	"log/slog"
	"time"
)

// DefaultFlushInterval is the periodic snapshot cadence.
const DefaultFlushInterval = 60 * time.Second

// Flusher writes both snapshots on a fixed interval. It is stateless: each
// tick serializes whatever the logs hold at that moment.
type Flusher struct {
	interval time.Duration
	svc      *Service
}

// NewFlusher creates a periodic flusher for svc.
func NewFlusher(svc *Service, interval time.Duration) *Flusher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Flusher{interval: interval, svc: svc}
}

// Start begins periodic snapshotting. Runs until the context is cancelled,
// then writes one final snapshot before returning.
func (f *Flusher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	slog.Info("[Flusher] Starting snapshot flusher", "interval", f.interval)

	for {
		select {
		case <-ticker.C:
			f.flush()
		case <-ctx.Done():
			slog.Info("[Flusher] Stopping (context cancelled), writing final snapshot")
			f.flush()
			slog.Info("[Flusher] Final snapshot complete")
			return nil
		}
	}
}

func (f *Flusher) flush() {
	if err := f.svc.FlushAll(); err != nil {
		slog.Error("[Flusher] Snapshot write failed", "error", err)
		return
	}
	slog.Debug("[Flusher] Snapshots written",
		"events", f.svc.EventCount(),
		"insights", f.svc.InsightCount(),
	)
}
