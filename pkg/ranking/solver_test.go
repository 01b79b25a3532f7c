package ranking

import (
	"errors"
	"math"
	"testing"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

func addNodes(t *testing.T, m *graph.Model, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := m.AddNode(graph.Node{ID: id, Layer: 1, Cluster: "test", Weight: 1}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
}

func addEdges(t *testing.T, m *graph.Model, edges map[string][]string) {
	t.Helper()
	// Deterministic insertion: follow the node order of the model.
	for _, from := range m.NodeIDs() {
		for _, to := range edges[from] {
			if err := m.AddEdge(from, to, 1); err != nil {
				t.Fatalf("AddEdge(%s->%s): %v", from, to, err)
			}
		}
	}
}

// sixNodeGraph is the reference topology: F feeds only D and is fed only
// by D, making it the weakest node under out-degree normalization.
func sixNodeGraph(t *testing.T) *graph.Model {
	t.Helper()
	m := graph.NewModel()
	addNodes(t, m, "A", "B", "C", "D", "E", "F")
	addEdges(t, m, map[string][]string{
		"A": {"B", "C"},
		"B": {"A", "C", "D"},
		"C": {"A", "B", "D", "E"},
		"D": {"B", "C", "E", "F"},
		"E": {"C", "D"},
		"F": {"D"},
	})
	return m
}

func rankSum(r *Result) float64 {
	var sum float64
	for _, v := range r.Ranks {
		sum += v
	}
	return sum
}

func TestSolverTwoNodeCycle(t *testing.T) {
	m := graph.NewModel()
	addNodes(t, m, "A", "B")
	addEdges(t, m, map[string][]string{"A": {"B"}, "B": {"A"}})

	res, err := NewSolver().Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Converged {
		t.Fatal("expected convergence on a two-node cycle")
	}
	for _, id := range []string{"A", "B"} {
		if math.Abs(res.Ranks[id]-0.5) > 1e-6 {
			t.Errorf("rank[%s] = %.9f, want 0.5 within 1e-6", id, res.Ranks[id])
		}
	}
}

func TestSolverSixNodeGraph(t *testing.T) {
	m := sixNodeGraph(t)

	res, err := NewSolver().Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if sum := rankSum(res); math.Abs(sum-1) > 1e-6 {
		t.Errorf("rank sum = %.9f, want 1", sum)
	}

	for id, v := range res.Ranks {
		if id == "F" {
			continue
		}
		if res.Ranks["F"] >= v {
			t.Errorf("rank[F] = %.6f not below rank[%s] = %.6f", res.Ranks["F"], id, v)
		}
	}
}

func TestSolverDampingBounds(t *testing.T) {
	m := sixNodeGraph(t)

	for _, d := range []float64{0, 1, -0.1, 1.5} {
		s := NewSolver()
		s.Damping = d
		_, err := s.Solve(m, nil)
		if err == nil {
			t.Errorf("damping %g: expected error", d)
			continue
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("damping %g: expected ConfigError, got %T", d, err)
		}
	}

	for _, d := range []float64{0.0001, 0.9999} {
		s := NewSolver()
		s.Damping = d
		s.MaxIterations = 10000
		res, err := s.Solve(m, nil)
		if err != nil {
			t.Errorf("damping %g: unexpected error %v", d, err)
			continue
		}
		if sum := rankSum(res); math.Abs(sum-1) > 1e-6 {
			t.Errorf("damping %g: rank sum = %.9f, want 1", d, sum)
		}
	}
}

func TestSolverZeroMassPersonalization(t *testing.T) {
	m := sixNodeGraph(t)
	_, err := NewSolver().Solve(m, Personalization{"A": 0, "B": 0})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError for zero total mass, got %v", err)
	}
}

func TestSolverUnknownPersonalizationNode(t *testing.T) {
	m := sixNodeGraph(t)
	_, err := NewSolver().Solve(m, Personalization{"ghost": 1})
	var ie *graph.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError for unknown node, got %v", err)
	}
}

func TestSolverEmptyGraph(t *testing.T) {
	_, err := NewSolver().Solve(graph.NewModel(), nil)
	var ie *graph.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError for empty graph, got %v", err)
	}
}

func TestSolverDanglingNodeConservesMass(t *testing.T) {
	m := graph.NewModel()
	addNodes(t, m, "A", "B", "C")
	// C has no outgoing edges; its mass is redistributed via the
	// personalization each iteration.
	addEdges(t, m, map[string][]string{"A": {"B", "C"}, "B": {"C"}})

	res, err := NewSolver().Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sum := rankSum(res); math.Abs(sum-1) > 1e-6 {
		t.Errorf("rank sum = %.9f, want 1", sum)
	}
	if res.Ranks["C"] <= res.Ranks["A"] {
		t.Errorf("sink C (%.6f) should outrank source A (%.6f)", res.Ranks["C"], res.Ranks["A"])
	}
}

func TestSolverSelfLoopOnlyNodeIsDangling(t *testing.T) {
	m := graph.NewModel()
	addNodes(t, m, "A", "B")
	if err := m.AddEdge("A", "B", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	// B's only out-edge is a self-loop, so it must be treated as
	// dangling rather than dividing by a zero outgoing sum.
	if err := m.AddEdge("B", "B", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	res, err := NewSolver().Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sum := rankSum(res); math.Abs(sum-1) > 1e-6 {
		t.Errorf("rank sum = %.9f, want 1", sum)
	}
}

func TestSolverDefaultsConvergeWithinCap(t *testing.T) {
	m := sixNodeGraph(t)

	// The shipped defaults must be mutually consistent: every
	// personalization mode converges before the iteration cap.
	for name, p := range map[string]Personalization{
		"uniform":           nil,
		"focused":           Focus("A"),
		"uniform excluding": UniformExcluding(m, "A"),
	} {
		res, err := NewSolver().Solve(m, p)
		if err != nil {
			t.Fatalf("%s: Solve: %v", name, err)
		}
		if !res.Converged {
			t.Errorf("%s: defaults hit the iteration cap (%d iterations)", name, res.Iterations)
		}
		if res.Iterations >= DefaultMaxIterations {
			t.Errorf("%s: converged with no headroom at %d iterations", name, res.Iterations)
		}
	}
}

func TestSolverNonConvergentFlag(t *testing.T) {
	m := sixNodeGraph(t)
	s := NewSolver()
	s.MaxIterations = 1
	s.Tolerance = 1e-15

	res, err := s.Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Converged {
		t.Error("expected Converged=false with a one-iteration cap")
	}
	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}
	if res.Ranks == nil {
		t.Error("last iterate should still be returned")
	}
}

func TestSolverDeterministic(t *testing.T) {
	m := sixNodeGraph(t)
	s := NewSolver()

	first, err := s.Solve(m, Focus("A"))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	second, err := s.Solve(m, Focus("A"))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for id, v := range first.Ranks {
		if second.Ranks[id] != v {
			t.Errorf("rank[%s] differs between identical runs: %v vs %v", id, v, second.Ranks[id])
		}
	}
	if first.Iterations != second.Iterations {
		t.Errorf("iteration counts differ: %d vs %d", first.Iterations, second.Iterations)
	}
}

func TestSolverWeightedTransitions(t *testing.T) {
	// B receives 9x the transition probability that C does, so it must
	// end up ranked well above C.
	m := graph.NewModel()
	addNodes(t, m, "A", "B", "C")
	if err := m.AddEdge("A", "B", 9); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := m.AddEdge("A", "C", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := m.AddEdge("B", "A", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := m.AddEdge("C", "A", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	res, err := NewSolver().Solve(m, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Ranks["B"] <= res.Ranks["C"] {
		t.Errorf("rank[B] = %.6f should exceed rank[C] = %.6f", res.Ranks["B"], res.Ranks["C"])
	}
}
