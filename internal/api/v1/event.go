package v1

import (
	"encoding/json"
	"time"
)

// Well-known event types. Type is an open set: trackers may send any tag,
// and unknown tags are stored untouched.
const (
	EventPageView    = "pageView"
	EventConversion  = "conversion"
	EventInteraction = "interaction"
	EventDevice      = "device"
)

// Well-known payload discriminators used by the aggregation queries.
const (
	ConversionAddToCart     = "add_to_cart"
	InteractionProductClick = "product_click"
)

// Event is the atomic unit of the tracking pipeline.
// It separates the envelope (fields the queries scan) from the free-form
// remainder of the tracker payload, which rides along in Data.
type Event struct {
	// ID is assigned by the server at ingest. Trackers never send one.
	ID string `json:"id,omitempty"`

	// Type tags the occurrence: pageView, conversion, interaction, device,
	// or any caller-defined tag. Never validated at ingest; unexpected
	// types simply fail every query filter.
	Type string `json:"type,omitempty"`

	// SessionID groups events into a client session. Optional: events
	// without one are kept but excluded from session and distinct counts.
	SessionID string `json:"sessionId,omitempty"`

	// Path is the page location for pageView events.
	Path string `json:"path,omitempty"`

	// ConversionType qualifies conversion events (e.g. add_to_cart).
	ConversionType string `json:"conversionType,omitempty"`

	// InteractionType qualifies interaction events (e.g. product_click).
	InteractionType string `json:"interactionType,omitempty"`

	// DeviceType is the reported device class for device events.
	// Matched case-insensitively by the device stats query.
	DeviceType string `json:"deviceType,omitempty"`

	// Details carries the product identifier for product interactions
	// and add-to-cart conversions.
	Details string `json:"details,omitempty"`

	// Timestamp is the client-side clock, when the tracker sent one.
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// ServerTimestamp is stamped at ingest and is never zero for a stored
	// event. It is the authoritative fallback when Timestamp is absent.
	ServerTimestamp time.Time `json:"serverTimestamp"`

	// Data holds every payload field that is not part of the envelope,
	// exactly as the tracker sent it.
	Data map[string]any `json:"-"`
}

// EffectiveTime returns the client timestamp when present, else the server
// timestamp. All window classification runs on this value.
func (e *Event) EffectiveTime() time.Time {
	if e.Timestamp != nil && !e.Timestamp.IsZero() {
		return *e.Timestamp
	}
	return e.ServerTimestamp
}

// envelope mirrors Event's scanned fields for plain JSON round-trips.
type envelope struct {
	ID              string     `json:"id,omitempty"`
	Type            string     `json:"type,omitempty"`
	SessionID       string     `json:"sessionId,omitempty"`
	Path            string     `json:"path,omitempty"`
	ConversionType  string     `json:"conversionType,omitempty"`
	InteractionType string     `json:"interactionType,omitempty"`
	DeviceType      string     `json:"deviceType,omitempty"`
	Details         string     `json:"details,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	ServerTimestamp *time.Time `json:"serverTimestamp,omitempty"`
}

var envelopeKeys = map[string]bool{
	"id":              true,
	"type":            true,
	"sessionId":       true,
	"path":            true,
	"conversionType":  true,
	"interactionType": true,
	"deviceType":      true,
	"details":         true,
	"timestamp":       true,
	"serverTimestamp": true,
}

// UnmarshalJSON lifts the envelope fields out of the raw payload and keeps
// everything else in Data. A field of the wrong shape (say, a numeric
// "details") stays in Data rather than failing the decode: ingest never
// validates, and queries treat it as absent.
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	lift := func(key string, dst any) bool {
		return json.Unmarshal(raw[key], dst) == nil
	}

	kept := make(map[string]any)
	for key, v := range raw {
		consumed := false
		switch key {
		case "id":
			consumed = lift(key, &e.ID)
		case "type":
			consumed = lift(key, &e.Type)
		case "sessionId":
			consumed = lift(key, &e.SessionID)
		case "path":
			consumed = lift(key, &e.Path)
		case "conversionType":
			consumed = lift(key, &e.ConversionType)
		case "interactionType":
			consumed = lift(key, &e.InteractionType)
		case "deviceType":
			consumed = lift(key, &e.DeviceType)
		case "details":
			consumed = lift(key, &e.Details)
		case "timestamp":
			if ts, ok := parseClientTime(v); ok {
				e.Timestamp = &ts
				consumed = true
			}
		case "serverTimestamp":
			consumed = lift(key, &e.ServerTimestamp)
		}
		if !consumed {
			var val any
			if err := json.Unmarshal(v, &val); err == nil {
				kept[key] = val
			}
		}
	}
	if len(kept) > 0 {
		e.Data = kept
	}
	return nil
}

// MarshalJSON re-flattens Data and the envelope into one object, so the
// persisted form matches what the tracker sent plus the server stamps.
// Envelope fields win on key collision.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Data)+8)
	for key, val := range e.Data {
		if !envelopeKeys[key] {
			out[key] = val
		}
	}

	env := envelope{
		ID:              e.ID,
		Type:            e.Type,
		SessionID:       e.SessionID,
		Path:            e.Path,
		ConversionType:  e.ConversionType,
		InteractionType: e.InteractionType,
		DeviceType:      e.DeviceType,
		Details:         e.Details,
		Timestamp:       e.Timestamp,
	}
	if !e.ServerTimestamp.IsZero() {
		env.ServerTimestamp = &e.ServerTimestamp
	}
	envJSON, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	var envMap map[string]any
	if err := json.Unmarshal(envJSON, &envMap); err != nil {
		return nil, err
	}
	for key, val := range envMap {
		out[key] = val
	}
	return json.Marshal(out)
}

// parseClientTime accepts the two timestamp shapes trackers send:
// an RFC3339 string or a Unix-milliseconds number.
func parseClientTime(raw json.RawMessage) (time.Time, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms), true
	}
	return time.Time{}, false
}
