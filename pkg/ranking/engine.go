package ranking

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Engine runs the full ranking pipeline: the three solver passes in
// parallel, the harmonized combination, and the coherence statistic.
type Engine struct {
	Solver    *Solver
	Center    string
	Coherence *CoherenceEvaluator
}

// NewEngine creates an engine with default solver parameters and the
// standard coherence floor.
func NewEngine(center string) *Engine {
	return &Engine{
		Solver:    NewSolver(),
		Center:    center,
		Coherence: NewCoherenceEvaluator(),
	}
}

// Report is the complete output of a ranking run. The three raw rank
// vectors are kept for diagnostics; Harmonized is the engine's primary
// output and is not normalized across nodes.
type Report struct {
	TopDown    *Result            `json:"top_down"`
	BottomUp   *Result            `json:"bottom_up"`
	Tonal      *Result            `json:"tonal"`
	Harmonized map[string]float64 `json:"harmonized"`
	Coherence  float64            `json:"coherence"`
	Converged  bool               `json:"converged"` // all three passes converged
}

// Rank computes a Report for g. The three passes read independent
// immutable views (the tonal pass derives its own private copy), so they
// run as parallel tasks joined before harmonization. The first failing
// pass cancels the group.
func (e *Engine) Rank(ctx context.Context, g *graph.Model) (*Report, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, &graph.IntegrityError{Op: "rank", Detail: "graph has no nodes"}
	}

	dr := &DirectionalRanker{Solver: e.Solver, Center: e.Center}
	if err := dr.checkCenter(g); err != nil {
		return nil, err
	}
	tw := &TonalWeighter{Solver: e.Solver}

	var topDown, bottomUp, tonal *Result
	grp, _ := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		topDown, err = dr.TopDown(g)
		return err
	})
	grp.Go(func() error {
		var err error
		bottomUp, err = dr.BottomUp(g)
		return err
	})
	grp.Go(func() error {
		var err error
		tonal, err = tw.Rank(g)
		return err
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	h := &Harmonizer{Center: e.Center}
	harmonized := h.Combine(g, topDown.Ranks, bottomUp.Ranks, tonal.Ranks)

	return &Report{
		TopDown:    topDown,
		BottomUp:   bottomUp,
		Tonal:      tonal,
		Harmonized: harmonized,
		Coherence:  e.Coherence.Evaluate(harmonized),
		Converged:  topDown.Converged && bottomUp.Converged && tonal.Converged,
	}, nil
}
