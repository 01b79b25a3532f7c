package ranking

import (
	"math"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Default solver parameters, matching the usual PageRank settings.
// The tolerance must be reachable within the iteration cap: the L1
// delta shrinks by roughly the damping factor per iteration, and
// 0.85^100 is just under 1e-7, so 1e-6 converges with headroom while a
// tighter threshold would hit the cap on ordinary graphs.
const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
)

// Solver computes personalized PageRank by power iteration with explicit
// transition-probability normalization and dangling-mass redistribution.
// Raw edge weights are never propagated directly: each node's outgoing
// mass is divided by its total outgoing weight, otherwise the iterate
// diverges instead of converging to a probability distribution.
type Solver struct {
	Damping       float64 // strictly inside (0,1)
	MaxIterations int
	Tolerance     float64 // L1 convergence threshold
}

// NewSolver returns a Solver with the default parameters.
func NewSolver() *Solver {
	return &Solver{
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Result is the output of one solver run. Ranks sums to 1 within the
// solver tolerance. Converged is false when the iteration cap was hit
// before the L1 difference dropped below the tolerance; the last iterate
// is still returned and the caller decides whether to retry with a
// larger cap.
type Result struct {
	Ranks      map[string]float64 `json:"ranks"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
}

func (s *Solver) validate() error {
	if s.Damping <= 0 || s.Damping >= 1 {
		return configErr("damping factor %g outside (0,1)", s.Damping)
	}
	if s.MaxIterations <= 0 {
		return configErr("max iterations must be positive, got %d", s.MaxIterations)
	}
	if s.Tolerance <= 0 {
		return configErr("tolerance must be positive, got %g", s.Tolerance)
	}
	return nil
}

// Solve runs the power iteration on g with the given personalization
// (nil means uniform). Node updates are applied in the graph's stable
// iteration order, so identical inputs produce bit-identical results.
func (s *Solver) Solve(g *graph.Model, p Personalization) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if g == nil || g.NodeCount() == 0 {
		return nil, &graph.IntegrityError{Op: "solve", Detail: "graph has no nodes"}
	}

	teleport, err := p.normalized(g)
	if err != nil {
		return nil, err
	}

	ids := g.NodeIDs()

	// Per-node outgoing weight totals. Self-loops are excluded from
	// normalization: a node whose only out-edges point at itself is
	// dangling, and no division by zero can occur below.
	outSum := make(map[string]float64, len(ids))
	for _, u := range ids {
		var sum float64
		for _, e := range g.Outgoing(u) {
			if e.To == u {
				continue
			}
			sum += e.Weight
		}
		outSum[u] = sum
	}

	d := s.Damping
	rank := make(map[string]float64, len(ids))
	for _, id := range ids {
		rank[id] = teleport[id]
	}
	next := make(map[string]float64, len(ids))

	for iter := 1; iter <= s.MaxIterations; iter++ {
		var danglingMass float64
		for _, u := range ids {
			if outSum[u] == 0 {
				danglingMass += rank[u]
			}
		}

		// Teleportation plus the dangling mass, both following the
		// personalization distribution. Mass is conserved at 1.
		for _, v := range ids {
			next[v] = (1-d)*teleport[v] + d*danglingMass*teleport[v]
		}

		// Push each node's rank along its outgoing transition
		// probabilities weight(u,v)/outSum(u).
		for _, u := range ids {
			if outSum[u] == 0 {
				continue
			}
			share := d * rank[u] / outSum[u]
			for _, e := range g.Outgoing(u) {
				if e.To == u {
					continue
				}
				next[e.To] += share * e.Weight
			}
		}

		var delta float64
		for _, id := range ids {
			delta += math.Abs(next[id] - rank[id])
			rank[id], next[id] = next[id], 0
		}

		if delta < s.Tolerance {
			return &Result{Ranks: rank, Iterations: iter, Converged: true}, nil
		}
	}

	return &Result{Ranks: rank, Iterations: s.MaxIterations, Converged: false}, nil
}
