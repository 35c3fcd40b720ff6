package window

import "time"

// Key names one of the rolling report windows. Every windowed summary
// reports all three.
type Key string

const (
	Today Key = "today"
	Week  Key = "weekly"
	Month Key = "monthly"
)

// All lists the report windows in their fixed output order.
var All = []Key{Today, Week, Month}

// Contains reports whether an effective timestamp falls inside the window
// relative to now. Membership is evaluated fresh on every query; nothing is
// pinned at ingest time.
//
//   - Today: same calendar date as now, in server-local time.
//   - Week: ts >= now minus exactly 168 hours.
//   - Month: ts >= now minus one calendar month via AddDate, which
//     normalizes short months the same way as subtracting one from the
//     month number (Mar 31 - 1 month lands on Mar 2/3, not Feb 28).
//
// Neither Week nor Month has an upper bound: a client-clocked timestamp
// slightly in the future still counts.
func (k Key) Contains(ts, now time.Time) bool {
	switch k {
	case Today:
		return sameLocalDay(ts, now)
	case Week:
		return !ts.Before(now.Add(-7 * 24 * time.Hour))
	case Month:
		return !ts.Before(now.AddDate(0, -1, 0))
	}
	return false
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
