// Package ranking implements the orbitrank importance-ranking engine:
// a personalized PageRank solver, its directional and tonal variants,
// the harmonized combination, and the coherence statistic over the
// result. The engine is a pure batch computation: it consumes a
// materialized graph.Model and produces rank vectors, keeping no state
// between runs.
package ranking

import "fmt"

// ConfigError reports invalid solver or engine configuration: a damping
// factor outside (0,1), a non-positive iteration cap or tolerance, or a
// personalization vector with zero total mass. Configuration errors abort
// a run before any iteration happens.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "ranking config: " + e.Detail
}

func configErr(format string, args ...any) error {
	return &ConfigError{Detail: fmt.Sprintf(format, args...)}
}
