package ranking

import (
	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Personalization maps node ids to non-negative teleportation mass.
// It is normalized to a probability distribution before use, and doubles
// as the redistribution target for dangling-node mass. A nil
// Personalization means uniform over all nodes.
type Personalization map[string]float64

// Uniform returns a personalization with equal mass on every node.
func Uniform(g *graph.Model) Personalization {
	p := make(Personalization, g.NodeCount())
	for _, id := range g.NodeIDs() {
		p[id] = 1
	}
	return p
}

// Focus returns a personalization with all mass on a single node.
func Focus(id string) Personalization {
	return Personalization{id: 1}
}

// UniformExcluding returns equal mass on every node except the given one.
func UniformExcluding(g *graph.Model, exclude string) Personalization {
	p := make(Personalization, g.NodeCount())
	for _, id := range g.NodeIDs() {
		if id != exclude {
			p[id] = 1
		}
	}
	return p
}

// normalized validates the personalization against the graph and scales
// it to sum to 1. Entries for unknown nodes are integrity errors; zero or
// negative total mass is a configuration error. Nodes without an entry
// get probability 0.
func (p Personalization) normalized(g *graph.Model) (map[string]float64, error) {
	if p == nil {
		p = Uniform(g)
	}
	if len(p) == 0 {
		return nil, configErr("personalization vector is empty")
	}

	var total float64
	for id, mass := range p {
		if !g.Has(id) {
			return nil, &graph.IntegrityError{Op: "personalization", Detail: "unknown node " + id}
		}
		if mass < 0 {
			return nil, configErr("personalization mass for %q is negative (%g)", id, mass)
		}
		total += mass
	}
	if total <= 0 {
		return nil, configErr("personalization vector has zero total mass")
	}

	out := make(map[string]float64, g.NodeCount())
	for _, id := range g.NodeIDs() {
		out[id] = p[id] / total
	}
	return out, nil
}
