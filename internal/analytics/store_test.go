package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
)

func TestEventLogRecordStampsAndCounts(t *testing.T) {
	log := NewEventLog(10)
	frozen := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	log.nowFn = func() time.Time { return frozen }

	stored, total := log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: "/home"})

	require.NotEmpty(t, stored.ID)
	require.Equal(t, frozen, stored.ServerTimestamp)
	require.Equal(t, int64(1), total)
	require.Equal(t, 1, log.Size())
}

func TestEventLogEvictsOldestPastCap(t *testing.T) {
	log := NewEventLog(3)
	for _, path := range []string{"/a", "/b", "/c", "/d"} {
		log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: path})
	}

	require.Equal(t, 3, log.Size())
	events := log.Snapshot()
	require.Equal(t, "/b", events[0].Path)
	require.Equal(t, "/c", events[1].Path)
	require.Equal(t, "/d", events[2].Path)
}

func TestEventLogSessionIndex(t *testing.T) {
	log := NewEventLog(100)
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	tick := 0
	log.nowFn = func() time.Time {
		ts := base.Add(time.Duration(tick) * time.Minute)
		tick++
		return ts
	}

	log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: "/home"})
	log.Record(v1.Event{Type: v1.EventConversion, SessionID: "s-1", ConversionType: v1.ConversionAddToCart})
	log.Record(v1.Event{Type: v1.EventInteraction, SessionID: "s-1", InteractionType: v1.InteractionProductClick})

	agg, ok := log.Session("s-1")
	require.True(t, ok)
	require.Equal(t, 1, agg.PageViews)
	require.Equal(t, 1, agg.Conversions)
	require.Equal(t, base, agg.FirstSeen)
	// Interactions bump activity without touching the counters.
	require.Equal(t, base.Add(2*time.Minute), agg.LastSeen)
}

func TestEventLogToleratesSessionlessEvents(t *testing.T) {
	log := NewEventLog(100)
	log.Record(v1.Event{Type: v1.EventPageView, Path: "/home"})

	require.Equal(t, 1, log.Size())
	require.Equal(t, 0, log.SessionCount())
}

func TestEventLogSessionCountersSurviveEviction(t *testing.T) {
	log := NewEventLog(2)
	for i := 0; i < 5; i++ {
		log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: "/p"})
	}

	require.Equal(t, 2, log.Size())
	agg, ok := log.Session("s-1")
	require.True(t, ok)
	require.Equal(t, 5, agg.PageViews)
}

func TestEventLogRestoreRebuildsSessions(t *testing.T) {
	src := NewEventLog(10)
	src.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-1", Path: "/home"})
	src.Record(v1.Event{Type: v1.EventConversion, SessionID: "s-1", ConversionType: v1.ConversionAddToCart})
	src.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-2", Path: "/pricing"})

	restored := NewEventLog(10)
	restored.Restore(src.Snapshot())

	require.Equal(t, src.Size(), restored.Size())
	require.Equal(t, 2, restored.SessionCount())

	want, ok := src.Session("s-1")
	require.True(t, ok)
	got, ok := restored.Session("s-1")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestEventLogRestoreTrimsOverCap(t *testing.T) {
	log := NewEventLog(2)
	log.Restore([]v1.Event{
		{Type: v1.EventPageView, Path: "/a"},
		{Type: v1.EventPageView, Path: "/b"},
		{Type: v1.EventPageView, Path: "/c"},
	})

	require.Equal(t, 2, log.Size())
	require.Equal(t, "/b", log.Snapshot()[0].Path)
}

func TestEventLogTopSessionsOrdering(t *testing.T) {
	log := NewEventLog(100)
	log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-viewer", Path: "/a"})
	log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-viewer", Path: "/b"})
	log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-viewer", Path: "/c"})
	log.Record(v1.Event{Type: v1.EventConversion, SessionID: "s-buyer", ConversionType: v1.ConversionAddToCart})
	log.Record(v1.Event{Type: v1.EventPageView, SessionID: "s-quiet", Path: "/a"})

	top := log.TopSessions(2)
	require.Len(t, top, 2)
	require.Equal(t, "s-buyer", top[0].SessionID)
	require.Equal(t, "s-viewer", top[1].SessionID)
}

func TestInsightLogAppendEnrichesAndCaps(t *testing.T) {
	log := NewInsightLog(3)
	frozen := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	log.nowFn = func() time.Time { return frozen }

	n := log.Append(v1.InsightBatch{
		SessionID: "s-1",
		Insights: []map[string]any{
			{"type": "scroll_depth", "value": 80},
			{"type": "rage_click", "priority": "high"},
		},
	})
	require.Equal(t, 2, n)
	require.Equal(t, 2, log.Size())

	stored := log.Snapshot()
	require.NotEmpty(t, stored[0].ID)
	require.Equal(t, "s-1", stored[0].SessionID)
	require.Equal(t, frozen, stored[0].ServerTimestamp)
	require.Equal(t, v1.PriorityHigh, stored[1].Priority)

	log.Append(v1.InsightBatch{SessionID: "s-2", Insights: []map[string]any{
		{"type": "a"}, {"type": "b"},
	}})
	require.Equal(t, 3, log.Size())
	// Oldest insight evicted first.
	require.Equal(t, "rage_click", log.Snapshot()[0].Data["type"])
}
