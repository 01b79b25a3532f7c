// Package manifest assembles the exportable ranking manifest from an
// engine report: per-cluster ranks, cluster-grouped node ranks, and the
// center summary with its coherence score.
package manifest

import (
	"sort"
	"time"

	"github.com/orbitrank/orbitrank/pkg/config"
	"github.com/orbitrank/orbitrank/pkg/graph"
	"github.com/orbitrank/orbitrank/pkg/ranking"
)

// Schema identifies the manifest layout for downstream consumers.
const Schema = "orbitrank.bidirectional.pagerank.v1"

// Manifest is the complete, renderable output of a ranking run.
// Immutable once built.
type Manifest struct {
	Timestamp time.Time              `json:"timestamp"`
	Network   string                 `json:"network"`
	Schema    string                 `json:"schema"`
	Converged bool                   `json:"converged"`
	Layers    map[int]string         `json:"layers"`
	Clusters  map[string]ClusterRank `json:"clusters"`
	Groups    map[string][]NodeRank  `json:"nodes"`
	Center    CenterRank             `json:"center"`
}

// ClusterRank is the harmonized rank of a cluster node.
type ClusterRank struct {
	Rank  float64 `json:"rank"`
	Layer int     `json:"layer"`
	URI   string  `json:"uri,omitempty"`
	Mode  string  `json:"mode,omitempty"`
}

// NodeRank is the harmonized rank of an ordinary node.
type NodeRank struct {
	Name    string  `json:"name"`
	Rank    float64 `json:"rank"`
	Layer   int     `json:"layer"`
	Cluster string  `json:"cluster"`
	Path    string  `json:"path,omitempty"`
	URI     string  `json:"uri,omitempty"`
}

// CenterRank summarizes the center node and the network-wide coherence.
type CenterRank struct {
	Node      string  `json:"node"`
	Rank      float64 `json:"rank"`
	Coherence float64 `json:"coherence_score"`
}

// Build assembles a Manifest from a graph, its ranking report and the
// cluster catalog. Nodes named in the catalog are reported as clusters;
// everything except the center is grouped under its cluster label, with
// each group sorted by rank, highest first.
func Build(cfg *config.Config, g *graph.Model, report *ranking.Report) *Manifest {
	m := &Manifest{
		Timestamp: time.Now().UTC(),
		Network:   cfg.Network,
		Schema:    Schema,
		Converged: report.Converged,
		Layers:    cfg.Layers,
		Clusters:  make(map[string]ClusterRank),
		Groups:    make(map[string][]NodeRank),
		Center: CenterRank{
			Node:      cfg.Ranking.Center,
			Rank:      report.Harmonized[cfg.Ranking.Center],
			Coherence: report.Coherence,
		},
	}

	for _, n := range g.Nodes() {
		rank := report.Harmonized[n.ID]
		if spec, ok := cfg.Clusters[n.ID]; ok {
			m.Clusters[n.ID] = ClusterRank{
				Rank:  rank,
				Layer: spec.Layer,
				URI:   spec.URI,
				Mode:  spec.Mode,
			}
			continue
		}
		if n.ID == cfg.Ranking.Center {
			continue
		}
		m.Groups[n.Cluster] = append(m.Groups[n.Cluster], NodeRank{
			Name:    n.ID,
			Rank:    rank,
			Layer:   n.Layer,
			Cluster: n.Cluster,
			Path:    n.Path,
			URI:     n.URI,
		})
	}

	for cluster := range m.Groups {
		group := m.Groups[cluster]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Rank != group[j].Rank {
				return group[i].Rank > group[j].Rank
			}
			return group[i].Name < group[j].Name
		})
	}

	return m
}

// Top returns the n highest-ranked entries across clusters and grouped
// nodes, including the center, sorted by rank descending.
func (m *Manifest) Top(n int) []NodeRank {
	all := make([]NodeRank, 0)
	all = append(all, NodeRank{Name: m.Center.Node, Rank: m.Center.Rank, Layer: graph.MaxLayer, Cluster: "center"})
	for name, cr := range m.Clusters {
		all = append(all, NodeRank{Name: name, Rank: cr.Rank, Layer: cr.Layer, Cluster: name})
	}
	for _, group := range m.Groups {
		all = append(all, group...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Rank != all[j].Rank {
			return all[i].Rank > all[j].Rank
		}
		return all[i].Name < all[j].Name
	})

	if len(all) > n {
		all = all[:n]
	}
	return all
}
