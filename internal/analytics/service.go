package analytics

import (
	"errors"
	"log/slog"
	"time"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
)

// Options tunes the analytics service. Zero values fall back to the
// defaults the module has always shipped with.
type Options struct {
	MaxEvents     int
	MaxInsights   int
	FlushEvery    int
	TrafficPath   string
	InsightsPath  string
	MaxBodySizeMB int
}

func (o Options) normalized() Options {
	if o.MaxEvents <= 0 {
		o.MaxEvents = DefaultMaxEvents
	}
	if o.MaxInsights <= 0 {
		o.MaxInsights = DefaultMaxInsights
	}
	if o.FlushEvery <= 0 {
		o.FlushEvery = DefaultFlushEvery
	}
	if o.TrafficPath == "" {
		o.TrafficPath = "data/analytics.json"
	}
	if o.InsightsPath == "" {
		o.InsightsPath = "data/insights.json"
	}
	if o.MaxBodySizeMB <= 0 {
		o.MaxBodySizeMB = 1 // default to 1MB
	}
	return o
}

// Service is the analytics facade: ingest on one side, queries and
// snapshots on the other. All state lives in the two logs; every query is
// computed from them at call time.
type Service struct {
	events       *EventLog
	insights     *InsightLog
	snap         *Snapshotter
	flushEvery   int64
	maxBodyBytes int64
	nowFn        func() time.Time
}

// NewService wires the logs and the snapshotter from opts.
func NewService(opts Options) *Service {
	opts = opts.normalized()
	s := &Service{
		events:       NewEventLog(opts.MaxEvents),
		insights:     NewInsightLog(opts.MaxInsights),
		snap:         NewSnapshotter(opts.TrafficPath, opts.InsightsPath),
		flushEvery:   int64(opts.FlushEvery),
		maxBodyBytes: int64(opts.MaxBodySizeMB) * 1024 * 1024,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	// Route every clock read through the service so tests can freeze time
	// in one place.
	s.events.nowFn = func() time.Time { return s.nowFn() }
	s.insights.nowFn = func() time.Time { return s.nowFn() }
	s.snap.nowFn = func() time.Time { return s.nowFn() }
	return s
}

// Track ingests one event and returns the stored copy. Every flushEvery-th
// accepted event schedules a snapshot write in the background; the ingest
// path itself never waits on the disk.
func (s *Service) Track(evt v1.Event) v1.Event {
	stored, total := s.events.Record(evt)
	if total%s.flushEvery == 0 {
		go s.flushEvents()
	}
	return stored
}

// SaveInsights validates and stores a batch. Unlike event tracking, every
// accepted batch schedules a snapshot write. Returns the number stored.
func (s *Service) SaveInsights(batch v1.InsightBatch) (int, error) {
	if err := batch.Validate(); err != nil {
		return 0, err
	}
	n := s.insights.Append(batch)
	go s.flushInsights()
	return n, nil
}

// Insights returns all stored insights, oldest first.
func (s *Service) Insights() []v1.Insight {
	return s.insights.Snapshot()
}

// HighPriorityInsights returns the most recent high-priority insights,
// newest first.
func (s *Service) HighPriorityInsights() []v1.Insight {
	var out []v1.Insight
	s.insights.View(func(ins []v1.Insight) {
		out = highPriority(ins, highPriorityLimit)
	})
	return out
}

// TrafficSummary reports de-duplicated page views and unique sessions for
// the three standard windows.
func (s *Service) TrafficSummary() TrafficSummary {
	var out TrafficSummary
	s.events.View(func(events []v1.Event) {
		out = summarizeTraffic(events, s.nowFn())
	})
	return out
}

// ConversionSummary reports add-to-cart performance for the three standard
// windows.
func (s *Service) ConversionSummary() ConversionSummary {
	var out ConversionSummary
	s.events.View(func(events []v1.Event) {
		out = summarizeConversions(events, s.nowFn())
	})
	return out
}

// TopProducts ranks the most-engaged products across the retained log.
func (s *Service) TopProducts() []ProductStat {
	var out []ProductStat
	s.events.View(func(events []v1.Event) {
		out = topProducts(events, topProductsLimit)
	})
	return out
}

// DeviceStats reports the device-type breakdown across the retained log.
func (s *Service) DeviceStats() DeviceStats {
	var out DeviceStats
	s.events.View(func(events []v1.Event) {
		out = deviceStats(events)
	})
	return out
}

// TopSessions returns the busiest sessions, best first.
func (s *Service) TopSessions(limit int) []SessionAggregate {
	return s.events.TopSessions(limit)
}

// Session returns one session's aggregate, if tracked.
func (s *Service) Session(sessionID string) (SessionAggregate, bool) {
	return s.events.Session(sessionID)
}

// EventCount returns the number of events currently retained.
func (s *Service) EventCount() int {
	return s.events.Size()
}

// InsightCount returns the number of insights currently retained.
func (s *Service) InsightCount() int {
	return s.insights.Size()
}

// SessionCount returns the number of indexed sessions.
func (s *Service) SessionCount() int {
	return s.events.SessionCount()
}

// Load restores both logs from their snapshot files. A corrupt or
// unreadable file is logged and skipped so the service always comes up,
// empty if need be.
func (s *Service) Load() {
	events, err := s.snap.LoadEvents()
	switch {
	case err != nil:
		slog.Warn("[Analytics] Event snapshot unreadable, starting empty", "error", err)
	case len(events) > 0:
		s.events.Restore(events)
		slog.Info("[Analytics] Restored event snapshot",
			"events", len(events),
			"sessions", s.events.SessionCount(),
			"file", s.snap.TrafficPath,
		)
	}

	insights, err := s.snap.LoadInsights()
	switch {
	case err != nil:
		slog.Warn("[Analytics] Insight snapshot unreadable, starting empty", "error", err)
	case len(insights) > 0:
		s.insights.Restore(insights)
		slog.Info("[Analytics] Restored insight snapshot",
			"insights", len(insights),
			"file", s.snap.InsightsPath,
		)
	}
}

// FlushEvents writes the event snapshot synchronously.
func (s *Service) FlushEvents() error {
	return s.snap.SaveEvents(s.events.Snapshot())
}

// FlushInsights writes the insight snapshot synchronously.
func (s *Service) FlushInsights() error {
	return s.snap.SaveInsights(s.insights.Snapshot())
}

// FlushAll writes both snapshots and reports every failure. Used by the
// periodic flusher and during shutdown.
func (s *Service) FlushAll() error {
	return errors.Join(s.FlushEvents(), s.FlushInsights())
}

// flushEvents is the fire-and-forget variant used on the ingest path.
// Failures are logged, never surfaced to the tracker.
func (s *Service) flushEvents() {
	if err := s.FlushEvents(); err != nil {
		slog.Error("[Analytics] Event snapshot write failed", "error", err)
	}
}

func (s *Service) flushInsights() {
	if err := s.FlushInsights(); err != nil {
		slog.Error("[Analytics] Insight snapshot write failed", "error", err)
	}
}
