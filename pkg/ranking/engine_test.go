package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

func TestEngineRank(t *testing.T) {
	m := layeredGraph(t)
	e := NewEngine("hub")

	report, err := e.Rank(context.Background(), m)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	if report.TopDown == nil || report.BottomUp == nil || report.Tonal == nil {
		t.Fatal("report is missing raw rank vectors")
	}
	if !report.Converged {
		t.Error("expected all three passes to converge")
	}
	if len(report.Harmonized) != m.NodeCount() {
		t.Errorf("harmonized has %d entries, want %d", len(report.Harmonized), m.NodeCount())
	}
	for id, v := range report.Harmonized {
		if v < 0 {
			t.Errorf("harmonized[%s] = %v, want non-negative", id, v)
		}
	}
	if report.Coherence < CoherenceFloor {
		t.Errorf("coherence = %v below floor %v", report.Coherence, CoherenceFloor)
	}
}

func TestEngineRankDeterministic(t *testing.T) {
	m := layeredGraph(t)
	e := NewEngine("hub")
	ctx := context.Background()

	first, err := e.Rank(ctx, m)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	second, err := e.Rank(ctx, m)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	for id, v := range first.Harmonized {
		if second.Harmonized[id] != v {
			t.Errorf("harmonized[%s] differs across runs: %v vs %v", id, v, second.Harmonized[id])
		}
	}
	if first.Coherence != second.Coherence {
		t.Errorf("coherence differs across runs: %v vs %v", first.Coherence, second.Coherence)
	}
}

func TestEngineRankErrors(t *testing.T) {
	e := NewEngine("hub")
	ctx := context.Background()

	if _, err := e.Rank(ctx, nil); err == nil {
		t.Error("expected error for nil graph")
	}
	if _, err := e.Rank(ctx, graph.NewModel()); err == nil {
		t.Error("expected error for empty graph")
	}

	m := layeredGraph(t)
	missing := NewEngine("ghost")
	_, err := missing.Rank(ctx, m)
	var ie *graph.IntegrityError
	if !errors.As(err, &ie) {
		t.Errorf("expected IntegrityError for absent center, got %v", err)
	}

	bad := NewEngine("hub")
	bad.Solver.Damping = 1.0
	_, err = bad.Rank(ctx, m)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConfigError for damping 1.0, got %v", err)
	}
}

func TestEngineNonConvergentReport(t *testing.T) {
	m := layeredGraph(t)
	e := NewEngine("hub")
	e.Solver.MaxIterations = 1
	e.Solver.Tolerance = 1e-15

	report, err := e.Rank(context.Background(), m)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if report.Converged {
		t.Error("expected Converged=false with a one-iteration cap")
	}
	if len(report.Harmonized) == 0 {
		t.Error("non-convergent runs should still produce a harmonized ranking")
	}
}
