package ranking

import (
	"github.com/orbitrank/orbitrank/pkg/graph"
)

// tonalLayerSpan is the divisor for the combined layer value of an
// edge's endpoints: two nodes at the top layer give the maximum
// multiplier 1 + (7+7)/14 = 2, two at the bottom give 1 + (1+1)/14.
const tonalLayerSpan = 2 * graph.MaxLayer

// TonalWeighter runs the tonal ranking pass: a solver run over a derived
// graph whose edge weights are scaled up by the combined layer value of
// each edge's endpoints, so links between high-layer nodes carry more
// propagation mass.
type TonalWeighter struct {
	Solver *Solver
}

// TonalView returns the derived graph with each edge weight scaled by
// 1 + (layer(from)+layer(to))/14. The source graph is never modified;
// the derived copy is private to the caller and safe to discard after
// the pass.
func TonalView(g *graph.Model) *graph.Model {
	return g.Reweight(func(from, to graph.Node, w float64) float64 {
		return w * (1 + float64(from.Layer+to.Layer)/tonalLayerSpan)
	})
}

// Rank solves the tonal view of g with uniform personalization.
func (t *TonalWeighter) Rank(g *graph.Model) (*Result, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, &graph.IntegrityError{Op: "tonal rank", Detail: "graph has no nodes"}
	}
	derived := TonalView(g)
	return t.Solver.Solve(derived, Uniform(derived))
}
