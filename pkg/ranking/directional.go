package ranking

import (
	"github.com/orbitrank/orbitrank/pkg/graph"
)

// DirectionalRanker computes the two directional rank variants around a
// distinguished center node: top-down on the graph as given, biased
// toward the center, and bottom-up on the reversed view, biased toward
// the periphery. Both passes read only immutable graph views and may run
// concurrently.
type DirectionalRanker struct {
	Solver *Solver
	Center string
}

func (r *DirectionalRanker) checkCenter(g *graph.Model) error {
	if r.Center == "" {
		return &graph.IntegrityError{Op: "directional rank", Detail: "no center node configured"}
	}
	if !g.Has(r.Center) {
		return &graph.IntegrityError{Op: "directional rank", Detail: "center node " + r.Center + " not in graph"}
	}
	return nil
}

// TopDown ranks with all teleportation mass on the center node.
func (r *DirectionalRanker) TopDown(g *graph.Model) (*Result, error) {
	if err := r.checkCenter(g); err != nil {
		return nil, err
	}
	return r.Solver.Solve(g, Focus(r.Center))
}

// BottomUp ranks the reversed graph with uniform teleportation mass over
// every node except the center.
func (r *DirectionalRanker) BottomUp(g *graph.Model) (*Result, error) {
	if err := r.checkCenter(g); err != nil {
		return nil, err
	}
	return r.Solver.Solve(g.Reverse(), UniformExcluding(g, r.Center))
}
