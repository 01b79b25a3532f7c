package graph

import (
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := buildTriangle(t)
	snap := NewSnapshot("snap-1", "testnet", "a", m)

	if snap.Stats.NodeCount != 3 || snap.Stats.EdgeCount != 3 {
		t.Fatalf("stats = %+v, want 3 nodes / 3 edges", snap.Stats)
	}

	path := filepath.Join(t.TempDir(), "snapshots", "snap-1.json")
	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.ID != "snap-1" || loaded.Network != "testnet" || loaded.Center != "a" {
		t.Errorf("loaded header = %s/%s/%s", loaded.ID, loaded.Network, loaded.Center)
	}

	rebuilt, err := loaded.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if rebuilt.NodeCount() != 3 || rebuilt.EdgeCount() != 3 {
		t.Errorf("rebuilt graph: %d nodes, %d edges", rebuilt.NodeCount(), rebuilt.EdgeCount())
	}
	n, ok := rebuilt.Node("b")
	if !ok {
		t.Fatal("node b missing after round trip")
	}
	if n.Layer != 4 || n.Cluster != "development" || n.Weight != 1.3 {
		t.Errorf("node b = %+v", n)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}

func TestSnapshotModelRejectsBadEdges(t *testing.T) {
	snap := &Snapshot{
		Nodes: []Node{{ID: "a", Layer: 1, Weight: 1}},
		Edges: []Edge{{From: "a", To: "ghost", Weight: 1}},
	}
	if _, err := snap.Model(); err == nil {
		t.Error("expected integrity error for edge to absent node")
	}
}
