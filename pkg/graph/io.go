package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the serialized form of a Model: the node/edge lists an
// external discovery component supplies and the engine consumes.
// Snapshots are immutable once created.
type Snapshot struct {
	ID         string        `json:"id"`
	Network    string        `json:"network"`
	Center     string        `json:"center"`
	Nodes      []Node        `json:"nodes"`
	Edges      []Edge        `json:"edges"`
	Stats      SnapshotStats `json:"stats"`
	CapturedAt time.Time     `json:"captured_at"`
}

// SnapshotStats holds summary statistics for a snapshot.
type SnapshotStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewSnapshot captures a Model into its serialized form.
func NewSnapshot(id, network, center string, m *Model) *Snapshot {
	return &Snapshot{
		ID:      id,
		Network: network,
		Center:  center,
		Nodes:   m.Nodes(),
		Edges:   m.Edges(),
		Stats: SnapshotStats{
			NodeCount: m.NodeCount(),
			EdgeCount: m.EdgeCount(),
		},
		CapturedAt: time.Now().UTC(),
	}
}

// Model rebuilds the in-memory graph from the snapshot, re-validating
// every node and edge.
func (s *Snapshot) Model() (*Model, error) {
	m := NewModel()
	for _, n := range s.Nodes {
		if err := m.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range s.Edges {
		if err := m.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SaveSnapshot writes a snapshot to disk as JSON.
func SaveSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	return &snap, nil
}
