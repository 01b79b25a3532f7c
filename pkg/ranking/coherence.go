package ranking

import (
	"gonum.org/v1/gonum/stat"
)

// CoherenceFloor is the minimum acceptable coherence. Returned values at
// the floor mean "at or below minimum acceptable coherence", not a
// precise measurement: the clamp turns the statistic into a pass/fail
// gate for downstream consumers.
const CoherenceFloor = 0.954

// CoherenceEvaluator computes a dispersion-based coherence statistic over
// harmonized scores: 1 - stddev/mean, using the population standard
// deviation, clamped to Floor. Lower dispersion means higher coherence.
type CoherenceEvaluator struct {
	Floor float64
}

// NewCoherenceEvaluator returns an evaluator with the standard floor.
func NewCoherenceEvaluator() *CoherenceEvaluator {
	return &CoherenceEvaluator{Floor: CoherenceFloor}
}

// Evaluate returns the clamped coherence of the given scores. A
// degenerate input (no values, or mean <= 0) scores 0 before the clamp,
// so it comes back exactly at the floor.
func (e *CoherenceEvaluator) Evaluate(scores map[string]float64) float64 {
	coherence := 0.0
	if len(scores) > 0 {
		values := make([]float64, 0, len(scores))
		for _, v := range scores {
			values = append(values, v)
		}
		mean := stat.Mean(values, nil)
		if mean > 0 {
			sigma := stat.PopStdDev(values, nil)
			coherence = 1 - sigma/mean
		}
	}
	if coherence < e.Floor {
		return e.Floor
	}
	return coherence
}
