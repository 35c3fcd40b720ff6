package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrafficWindow counts de-duplicated page traffic inside one reporting
// window: pageViews is the number of distinct (session, path) pairs,
// uniqueSessions the number of distinct sessions behind them.
type TrafficWindow struct {
	PageViews      int `json:"pageViews"`
	UniqueSessions int `json:"uniqueSessions"`
}

// TrafficSummary reports traffic for the three standard windows, computed
// from the event log at call time.
type TrafficSummary struct {
	Today       TrafficWindow `json:"today"`
	Weekly      TrafficWindow `json:"weekly"`
	Monthly     TrafficWindow `json:"monthly"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ConversionWindow pairs raw counts with the derived rate: add-to-cart
// conversions per hundred page views, rounded to two decimal places. The
// rate is zero when there are no page views.
type ConversionWindow struct {
	Conversions int             `json:"conversions"`
	PageViews   int             `json:"pageViews"`
	Rate        decimal.Decimal `json:"rate"`
}

// ConversionSummary reports conversion performance for the three standard
// windows.
type ConversionSummary struct {
	Today   ConversionWindow `json:"today"`
	Weekly  ConversionWindow `json:"weekly"`
	Monthly ConversionWindow `json:"monthly"`
}

// ProductStat aggregates interest in one product across the whole retained
// log: product-click views plus add-to-cart conversions.
type ProductStat struct {
	Product  string `json:"product"`
	Views    int    `json:"views"`
	CartAdds int    `json:"cartAdds"`
}

// DeviceCounts tallies device-type events into three buckets. Anything that
// is not recognisably desktop or mobile lands in Unknown.
type DeviceCounts struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
	Unknown int `json:"unknown"`
}

// DevicePercents expresses the same buckets as percentages of the total,
// rounded to one decimal place. All zero when no device events exist.
type DevicePercents struct {
	Desktop decimal.Decimal `json:"desktop"`
	Mobile  decimal.Decimal `json:"mobile"`
	Unknown decimal.Decimal `json:"unknown"`
}

// DeviceStats is the full device breakdown: absolute counts plus their
// percentage split.
type DeviceStats struct {
	Counts      DeviceCounts   `json:"counts"`
	Percentages DevicePercents `json:"percentages"`
}
