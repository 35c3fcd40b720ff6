package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
	"github.com/Uzair-37/Standard-website/internal/core/window"
)

const (
	topProductsLimit  = 5
	highPriorityLimit = 10
)

var hundred = decimal.NewFromInt(100)

// conversionRate is conversions per hundred page views, rounded to two
// decimal places. Zero page views yields zero rather than a division error.
func conversionRate(conversions, pageViews int) decimal.Decimal {
	if pageViews == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(conversions)).
		Div(decimal.NewFromInt(int64(pageViews))).
		Mul(hundred).
		Round(2)
}

// percentOf is count's share of total as a percentage rounded to one
// decimal place, zero when total is zero.
func percentOf(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(1)
}

type pageVisit struct {
	session string
	path    string
}

// summarizeTraffic de-duplicates page views per window: a session viewing
// the same path five times counts once. Events without a session ID cannot
// be attributed and are skipped.
func summarizeTraffic(events []v1.Event, now time.Time) TrafficSummary {
	visits := make(map[window.Key]map[pageVisit]struct{}, len(window.All))
	sessions := make(map[window.Key]map[string]struct{}, len(window.All))
	for _, k := range window.All {
		visits[k] = make(map[pageVisit]struct{})
		sessions[k] = make(map[string]struct{})
	}

	for _, evt := range events {
		if evt.Type != v1.EventPageView || evt.SessionID == "" {
			continue
		}
		ts := evt.EffectiveTime()
		for _, k := range window.All {
			if !k.Contains(ts, now) {
				continue
			}
			visits[k][pageVisit{evt.SessionID, evt.Path}] = struct{}{}
			sessions[k][evt.SessionID] = struct{}{}
		}
	}

	win := func(k window.Key) TrafficWindow {
		return TrafficWindow{PageViews: len(visits[k]), UniqueSessions: len(sessions[k])}
	}
	return TrafficSummary{
		Today:       win(window.Today),
		Weekly:      win(window.Week),
		Monthly:     win(window.Month),
		GeneratedAt: now,
	}
}

// summarizeConversions counts add-to-cart conversions against raw page
// views per window and derives the rate. Only events attributable to a
// session participate.
func summarizeConversions(events []v1.Event, now time.Time) ConversionSummary {
	counts := make(map[window.Key]*ConversionWindow, len(window.All))
	for _, k := range window.All {
		counts[k] = &ConversionWindow{}
	}

	for _, evt := range events {
		if evt.SessionID == "" {
			continue
		}
		isView := evt.Type == v1.EventPageView
		isCart := evt.Type == v1.EventConversion && evt.ConversionType == v1.ConversionAddToCart
		if !isView && !isCart {
			continue
		}
		ts := evt.EffectiveTime()
		for _, k := range window.All {
			if !k.Contains(ts, now) {
				continue
			}
			if isView {
				counts[k].PageViews++
			} else {
				counts[k].Conversions++
			}
		}
	}

	for _, k := range window.All {
		counts[k].Rate = conversionRate(counts[k].Conversions, counts[k].PageViews)
	}
	return ConversionSummary{
		Today:   *counts[window.Today],
		Weekly:  *counts[window.Week],
		Monthly: *counts[window.Month],
	}
}

// topProducts ranks products by combined interest (product-click views plus
// cart adds) across the whole retained log, no window filter. Ties keep
// first-seen order so repeated calls over the same log are stable.
func topProducts(events []v1.Event, limit int) []ProductStat {
	stats := make(map[string]*ProductStat)
	order := make([]string, 0)

	for _, evt := range events {
		var isView bool
		switch {
		case evt.Type == v1.EventInteraction && evt.InteractionType == v1.InteractionProductClick:
			isView = true
		case evt.Type == v1.EventConversion && evt.ConversionType == v1.ConversionAddToCart:
		default:
			continue
		}
		name := evt.Details
		if name == "" {
			continue
		}
		stat, ok := stats[name]
		if !ok {
			stat = &ProductStat{Product: name}
			stats[name] = stat
			order = append(order, name)
		}
		if isView {
			stat.Views++
		} else {
			stat.CartAdds++
		}
	}

	out := make([]ProductStat, 0, len(order))
	for _, name := range order {
		out = append(out, *stats[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Views+out[i].CartAdds > out[j].Views+out[j].CartAdds
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// deviceStats buckets device events case-insensitively into desktop,
// mobile and unknown. Unrecognised and missing device types both count as
// unknown rather than being dropped.
func deviceStats(events []v1.Event) DeviceStats {
	var c DeviceCounts
	for _, evt := range events {
		if evt.Type != v1.EventDevice {
			continue
		}
		switch strings.ToLower(evt.DeviceType) {
		case "desktop":
			c.Desktop++
		case "mobile":
			c.Mobile++
		default:
			c.Unknown++
		}
	}
	total := c.Desktop + c.Mobile + c.Unknown
	return DeviceStats{
		Counts: c,
		Percentages: DevicePercents{
			Desktop: percentOf(c.Desktop, total),
			Mobile:  percentOf(c.Mobile, total),
			Unknown: percentOf(c.Unknown, total),
		},
	}
}

// highPriority returns the most recent high-priority insights, newest
// first by server timestamp, capped at limit.
func highPriority(insights []v1.Insight, limit int) []v1.Insight {
	out := make([]v1.Insight, 0)
	for _, ins := range insights {
		if ins.Priority == v1.PriorityHigh {
			out = append(out, ins)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ServerTimestamp.After(out[j].ServerTimestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
