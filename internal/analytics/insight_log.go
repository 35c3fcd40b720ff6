package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
)

// DefaultMaxInsights bounds the insight store, oldest dropped first.
const DefaultMaxInsights = 1000

// InsightLog stores client-computed insight payloads. Like the event log it
// is a bounded in-memory slice, but far smaller: insights arrive in batches
// and are queried only by priority.
type InsightLog struct {
	mu          sync.RWMutex
	insights    []v1.Insight
	maxInsights int
	nowFn       func() time.Time
}

// NewInsightLog creates an empty log capped at maxInsights
// (DefaultMaxInsights when <= 0).
func NewInsightLog(maxInsights int) *InsightLog {
	if maxInsights <= 0 {
		maxInsights = DefaultMaxInsights
	}
	return &InsightLog{
		maxInsights: maxInsights,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// Append stores every insight in the batch, enriching each with an ID, the
// batch session ID and timestamps. A batch is all-or-nothing only in the
// trivial sense that enrichment cannot fail; the cap may still evict older
// insights mid-batch. Returns the number stored.
func (l *InsightLog) Append(batch v1.InsightBatch) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	for _, raw := range batch.Insights {
		ins := v1.NewInsight(raw, batch.SessionID, batch.Timestamp, now)
		ins.ID = uuid.NewString()
		l.insights = append(l.insights, ins)
	}
	if len(l.insights) > l.maxInsights {
		l.insights = l.insights[len(l.insights)-l.maxInsights:]
	}
	return len(batch.Insights)
}

// View runs fn over the current insight slice under the read lock. fn must
// not retain the slice.
func (l *InsightLog) View(fn func(insights []v1.Insight)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.insights)
}

// Snapshot returns a copy of the stored insights, oldest first.
func (l *InsightLog) Snapshot() []v1.Insight {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]v1.Insight, len(l.insights))
	copy(out, l.insights)
	return out
}

// Restore replaces the log with previously persisted insights, dropping
// oldest-first past the cap.
func (l *InsightLog) Restore(insights []v1.Insight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(insights) > l.maxInsights {
		insights = insights[len(insights)-l.maxInsights:]
	}
	l.insights = make([]v1.Insight, len(insights))
	copy(l.insights, insights)
}

// Size returns the number of insights currently held.
func (l *InsightLog) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.insights)
}
