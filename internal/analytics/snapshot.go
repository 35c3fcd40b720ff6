package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	v1 "github.com/Uzair-37/Standard-website/internal/api/v1"
)

// trafficFile is the on-disk shape of the event snapshot.
type trafficFile struct {
	Events      []v1.Event `json:"events"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// insightsFile is the on-disk shape of the insight snapshot.
type insightsFile struct {
	Insights    []v1.Insight `json:"insights"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// Snapshotter persists full-state snapshots as pretty-printed JSON. Every
// save rewrites the whole file through a temp file in the target directory
// followed by a rename, so a crash mid-write leaves the previous snapshot
// intact and concurrent saves resolve to last-writer-wins.
type Snapshotter struct {
	TrafficPath  string
	InsightsPath string

	nowFn func() time.Time
}

// NewSnapshotter persists event snapshots to trafficPath and insight
// snapshots to insightsPath.
func NewSnapshotter(trafficPath, insightsPath string) *Snapshotter {
	return &Snapshotter{
		TrafficPath:  trafficPath,
		InsightsPath: insightsPath,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

// SaveEvents writes the full event snapshot. An empty log writes an empty
// array, never null.
func (s *Snapshotter) SaveEvents(events []v1.Event) error {
	if events == nil {
		events = []v1.Event{}
	}
	return writeSnapshot(s.TrafficPath, trafficFile{Events: events, LastUpdated: s.nowFn()})
}

// SaveInsights writes the full insight snapshot.
func (s *Snapshotter) SaveInsights(insights []v1.Insight) error {
	if insights == nil {
		insights = []v1.Insight{}
	}
	return writeSnapshot(s.InsightsPath, insightsFile{Insights: insights, LastUpdated: s.nowFn()})
}

// LoadEvents reads the event snapshot. A missing file is a normal first
// boot and returns no events and no error; a corrupt file returns an error
// and the caller decides whether to start empty.
func (s *Snapshotter) LoadEvents() ([]v1.Event, error) {
	data, err := os.ReadFile(s.TrafficPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading event snapshot %s: %w", s.TrafficPath, err)
	}
	var f trafficFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding event snapshot %s: %w", s.TrafficPath, err)
	}
	return f.Events, nil
}

// LoadInsights reads the insight snapshot with the same missing-file
// semantics as LoadEvents.
func (s *Snapshotter) LoadInsights() ([]v1.Insight, error) {
	data, err := os.ReadFile(s.InsightsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading insight snapshot %s: %w", s.InsightsPath, err)
	}
	var f insightsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding insight snapshot %s: %w", s.InsightsPath, err)
	}
	return f.Insights, nil
}

func writeSnapshot(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot %s: %w", path, err)
	}
	return nil
}
