package v1

import (
	"encoding/json"
	"errors"
	"time"
)

// PriorityHigh is the priority level surfaced by the high-priority query.
const PriorityHigh = "high"

// ErrNoInsights marks a batch that carries no insight list; such batches
// are dropped without touching the store.
var ErrNoInsights = errors.New("insight batch has no insights")

// InsightBatch is the ingest shape for externally computed insights: one
// session, one client timestamp, and an ordered list of free-form records.
type InsightBatch struct {
	SessionID string           `json:"sessionId"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Insights  []map[string]any `json:"insights"`
}

// Validate rejects batches that carry no insight list. Everything else is
// accepted untouched.
func (b *InsightBatch) Validate() error {
	if len(b.Insights) == 0 {
		return ErrNoInsights
	}
	return nil
}

// Insight is one stored insight record: the caller's fields verbatim plus
// the batch session, the batch timestamp (as clientTimestamp), and a server
// stamp assigned at ingest.
type Insight struct {
	ID              string     `json:"id,omitempty"`
	SessionID       string     `json:"sessionId,omitempty"`
	Priority        string     `json:"priority,omitempty"`
	ClientTimestamp *time.Time `json:"clientTimestamp,omitempty"`
	ServerTimestamp time.Time  `json:"serverTimestamp"`

	// Data holds the caller-supplied fields other than priority.
	Data map[string]any `json:"-"`
}

var insightEnvelopeKeys = map[string]bool{
	"id":              true,
	"sessionId":       true,
	"priority":        true,
	"clientTimestamp": true,
	"serverTimestamp": true,
}

// NewInsight builds a stored record from one raw batch entry.
func NewInsight(raw map[string]any, sessionID string, clientTS *time.Time, serverTS time.Time) Insight {
	ins := Insight{
		SessionID:       sessionID,
		ClientTimestamp: clientTS,
		ServerTimestamp: serverTS,
	}
	kept := make(map[string]any, len(raw))
	for key, val := range raw {
		if key == "priority" {
			if p, ok := val.(string); ok {
				ins.Priority = p
				continue
			}
		}
		if !insightEnvelopeKeys[key] {
			kept[key] = val
		}
	}
	if len(kept) > 0 {
		ins.Data = kept
	}
	return ins
}

type insightEnvelope struct {
	ID              string     `json:"id,omitempty"`
	SessionID       string     `json:"sessionId,omitempty"`
	Priority        string     `json:"priority,omitempty"`
	ClientTimestamp *time.Time `json:"clientTimestamp,omitempty"`
	ServerTimestamp *time.Time `json:"serverTimestamp,omitempty"`
}

// MarshalJSON flattens the record back into one object, caller fields first,
// envelope fields winning on collision.
func (i Insight) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Data)+5)
	for key, val := range i.Data {
		if !insightEnvelopeKeys[key] {
			out[key] = val
		}
	}

	env := insightEnvelope{
		ID:              i.ID,
		SessionID:       i.SessionID,
		Priority:        i.Priority,
		ClientTimestamp: i.ClientTimestamp,
	}
	if !i.ServerTimestamp.IsZero() {
		env.ServerTimestamp = &i.ServerTimestamp
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

// UnmarshalJSON mirrors MarshalJSON so persisted insights reload losslessly.
func (i *Insight) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	kept := make(map[string]any)
	for key, v := range raw {
		consumed := false
		switch key {
		case "id":
			consumed = json.Unmarshal(v, &i.ID) == nil
		case "sessionId":
			consumed = json.Unmarshal(v, &i.SessionID) == nil
		case "priority":
			consumed = json.Unmarshal(v, &i.Priority) == nil
		case "clientTimestamp":
			if ts, ok := parseClientTime(v); ok {
				i.ClientTimestamp = &ts
				consumed = true
			}
		case "serverTimestamp":
			consumed = json.Unmarshal(v, &i.ServerTimestamp) == nil
		}
		if !consumed {
			var val any
			if err := json.Unmarshal(v, &val); err == nil {
				kept[key] = val
			}
		}
	}
	if len(kept) > 0 {
		i.Data = kept
	}
	return nil
}
