package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
)

const (
	// DefaultMaxEvents bounds the in-memory event log. On overflow the
	// oldest events are dropped first.
	DefaultMaxEvents = 10000

	// DefaultFlushEvery is the ingest-count interval between
	// snapshot writes triggered by tracking itself.
	DefaultFlushEvery = 100
)

// SessionAggregate is the per-session view maintained incrementally at
// ingest: counters plus first/last activity. Aggregates are never pruned;
// they live for the life of the process even after their underlying events
// age out of the log.
type SessionAggregate struct {
	SessionID   string    `json:"sessionId"`
	PageViews   int       `json:"pageViews"`
	Conversions int       `json:"conversions"`
	FirstSeen   time.Time `json:"firstSeen"`
	LastSeen    time.Time `json:"lastSeen"`
}

// EventLog is the canonical store of tracking events: a bounded append-only
// log plus the session index derived from it. All window membership is
// computed from the log at query time; nothing else holds event state.
type EventLog struct {
	mu        sync.RWMutex
	events    []v1.Event
	sessions  map[string]*SessionAggregate
	ingested  int64 // total accepted since process start; drives flush cadence
	maxEvents int
	nowFn     func() time.Time
}

// NewEventLog creates an empty log capped at maxEvents (DefaultMaxEvents
// when <= 0).
func NewEventLog(maxEvents int) *EventLog {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &EventLog{
		sessions:  make(map[string]*SessionAggregate),
		maxEvents: maxEvents,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// Record stamps and stores one event: assigns an ID and the server
// timestamp, appends, updates the session index, and evicts oldest-first
// past the cap. The payload itself is never validated; whatever the tracker
// sent is stored as-is. Returns the stored event and the running ingest
// count.
func (l *EventLog) Record(evt v1.Event) (v1.Event, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	evt.ID = uuid.NewString()
	evt.ServerTimestamp = l.nowFn()

	l.events = append(l.events, evt)
	if len(l.events) > l.maxEvents {
		l.events = l.events[len(l.events)-l.maxEvents:]
	}
	l.applySession(evt)
	l.ingested++
	return evt, l.ingested
}

// applySession folds one event into the session index. Events without a
// session ID are tolerated but never indexed. Callers hold the write lock.
func (l *EventLog) applySession(evt v1.Event) {
	if evt.SessionID == "" {
		return
	}
	agg, ok := l.sessions[evt.SessionID]
	if !ok {
		agg = &SessionAggregate{
			SessionID: evt.SessionID,
			FirstSeen: evt.ServerTimestamp,
		}
		l.sessions[evt.SessionID] = agg
	}
	agg.LastSeen = evt.ServerTimestamp
	switch evt.Type {
	case v1.EventPageView:
		agg.PageViews++
	case v1.EventConversion:
		agg.Conversions++
	}
}

// View runs fn over the current event slice under the read lock. fn must
// not retain the slice.
func (l *EventLog) View(fn func(events []v1.Event)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.events)
}

// Snapshot returns a copy of the stored events, oldest first.
func (l *EventLog) Snapshot() []v1.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]v1.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Restore replaces the log with previously persisted events and rebuilds
// the session index from them. Events past the cap are dropped oldest-first,
// matching ingest-time eviction.
func (l *EventLog) Restore(events []v1.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(events) > l.maxEvents {
		events = events[len(events)-l.maxEvents:]
	}
	l.events = make([]v1.Event, len(events))
	copy(l.events, events)

	l.sessions = make(map[string]*SessionAggregate)
	for _, evt := range l.events {
		l.applySession(evt)
	}
}

// Size returns the number of events currently held.
func (l *EventLog) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Session returns a copy of one session's aggregate, if it exists.
func (l *EventLog) Session(sessionID string) (SessionAggregate, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	agg, ok := l.sessions[sessionID]
	if !ok {
		return SessionAggregate{}, false
	}
	return *agg, true
}

// SessionCount returns the number of indexed sessions.
func (l *EventLog) SessionCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// TopSessions returns up to limit sessions ordered by conversions, then
// page views, then most recent activity.
func (l *EventLog) TopSessions(limit int) []SessionAggregate {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]SessionAggregate, 0, len(l.sessions))
	for _, agg := range l.sessions {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Conversions != out[j].Conversions {
			return out[i].Conversions > out[j].Conversions
		}
		if out[i].PageViews != out[j].PageViews {
			return out[i].PageViews > out[j].PageViews
		}
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
