package ranking

import (
	"math"
	"testing"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

func TestCoefficientsAreConvex(t *testing.T) {
	for layer := graph.MinLayer; layer <= graph.MaxLayer; layer++ {
		td, bu, tn := Coefficients(layer)
		if td < 0 || bu < 0 || tn < 0 {
			t.Errorf("layer %d: negative coefficient (%.3f, %.3f, %.3f)", layer, td, bu, tn)
		}
		if sum := td + bu + tn; math.Abs(sum-1) > 1e-12 {
			t.Errorf("layer %d: coefficients sum to %.15f, want 1", layer, sum)
		}
	}

	// Center coefficients are convex too.
	td, bu, tn := centerCoefficients()
	if sum := td + bu + tn; math.Abs(sum-1) > 1e-12 {
		t.Errorf("center coefficients sum to %.15f, want 1", sum)
	}
}

func TestCoefficientsLayerBias(t *testing.T) {
	tdLow, buLow, _ := Coefficients(graph.MinLayer)
	tdHigh, buHigh, _ := Coefficients(graph.MaxLayer)

	if tdHigh <= tdLow {
		t.Errorf("top-down weight should grow with layer: %.3f vs %.3f", tdLow, tdHigh)
	}
	if buHigh >= buLow {
		t.Errorf("bottom-up weight should shrink with layer: %.3f vs %.3f", buLow, buHigh)
	}
}

func TestCombine(t *testing.T) {
	m := graph.NewModel()
	if err := m.AddNode(graph.Node{ID: "hub", Layer: 7, Cluster: "center", Weight: 2}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := m.AddNode(graph.Node{ID: "leaf", Layer: 2, Cluster: "operations", Weight: 1}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	td := map[string]float64{"hub": 0.8, "leaf": 0.2}
	bu := map[string]float64{"hub": 0.1, "leaf": 0.9}
	tn := map[string]float64{"hub": 0.5, "leaf": 0.5}

	h := &Harmonizer{Center: "hub"}
	got := h.Combine(m, td, bu, tn)

	wantHub := 0.5*0.8 + 0.3*0.1 + 0.2*0.5
	if math.Abs(got["hub"]-wantHub) > 1e-12 {
		t.Errorf("hub = %.12f, want %.12f", got["hub"], wantHub)
	}

	ctd, cbu, ctn := Coefficients(2)
	wantLeaf := ctd*0.2 + cbu*0.9 + ctn*0.5
	if math.Abs(got["leaf"]-wantLeaf) > 1e-12 {
		t.Errorf("leaf = %.12f, want %.12f", got["leaf"], wantLeaf)
	}
}

func TestCombineMissingEntriesContributeZero(t *testing.T) {
	m := graph.NewModel()
	if err := m.AddNode(graph.Node{ID: "only", Layer: 3, Weight: 1}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	h := &Harmonizer{Center: "elsewhere"}
	got := h.Combine(m, map[string]float64{"only": 1}, nil, nil)

	td, _, _ := Coefficients(3)
	if math.Abs(got["only"]-td) > 1e-12 {
		t.Errorf("got %.12f, want td coefficient %.12f", got["only"], td)
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize(map[string]float64{"a": 1, "b": 3})
	if math.Abs(out["a"]-0.25) > 1e-12 || math.Abs(out["b"]-0.75) > 1e-12 {
		t.Errorf("Normalize = %v, want {a:0.25 b:0.75}", out)
	}

	zeros := Normalize(map[string]float64{"a": 0, "b": 0})
	if zeros["a"] != 0 || zeros["b"] != 0 {
		t.Errorf("all-zero input should pass through, got %v", zeros)
	}
}
