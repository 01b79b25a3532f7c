package ranking

import (
	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Harmonizer merges the three per-node rank variants into one score with
// layer-dependent convex weights. Each node's combination is locally
// convex (the three coefficients always sum to 1); the harmonized map as
// a whole is NOT renormalized to sum to 1 across nodes; callers that
// need a distribution apply Normalize explicitly.
type Harmonizer struct {
	Center string
}

// Coefficients returns the (top-down, bottom-up, tonal) weights for a
// node at the given layer. Higher layers emphasize the top-down pass,
// lower layers the bottom-up pass; the tonal share is constant.
func Coefficients(layer int) (td, bu, tn float64) {
	lw := float64(layer) / float64(graph.MaxLayer)
	return 0.4 + 0.2*lw, 0.4 - 0.2*lw, 0.2
}

// centerCoefficients is the fixed weighting for the center node.
func centerCoefficients() (td, bu, tn float64) {
	return 0.5, 0.3, 0.2
}

// Combine produces the harmonized score for every node in g. Missing
// entries in any of the three vectors contribute zero.
func (h *Harmonizer) Combine(g *graph.Model, topDown, bottomUp, tonal map[string]float64) map[string]float64 {
	harmonized := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		var td, bu, tn float64
		if n.ID == h.Center {
			td, bu, tn = centerCoefficients()
		} else {
			td, bu, tn = Coefficients(n.Layer)
		}
		harmonized[n.ID] = td*topDown[n.ID] + bu*bottomUp[n.ID] + tn*tonal[n.ID]
	}
	return harmonized
}

// Normalize scales a rank map so its values sum to 1. It returns a new
// map; an all-zero input is returned as a copy unchanged.
func Normalize(ranks map[string]float64) map[string]float64 {
	var total float64
	for _, v := range ranks {
		total += v
	}
	out := make(map[string]float64, len(ranks))
	for id, v := range ranks {
		if total > 0 {
			out[id] = v / total
		} else {
			out[id] = v
		}
	}
	return out
}
