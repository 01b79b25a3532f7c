// Package discovery materializes the network graph the ranking engine
// consumes. It scans a base directory for git checkouts, assigns each
// repository to a cluster from the configured catalog, and assembles the
// center/cluster/repo topology with the catalog's edge weights. It is
// purely a data supplier: the engine never reaches back into it.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/orbitrank/orbitrank/pkg/config"
	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Repo is one discovered repository checkout.
type Repo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Remote  string `json:"remote,omitempty"`
	Cluster string `json:"cluster"`
}

// Scanner discovers repositories under the configured base path.
type Scanner struct {
	cfg *config.Config
}

// NewScanner creates a Scanner for the given configuration.
func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan returns the repositories found under the base path. When the
// config names repos explicitly only those are considered; otherwise
// every direct subdirectory is a candidate. Directories without a .git
// entry are skipped silently since the base path often holds non-repo
// clutter.
func (s *Scanner) Scan() ([]Repo, error) {
	base := s.cfg.Discovery.BasePath
	if base == "" {
		return nil, fmt.Errorf("discovery: no base path configured")
	}

	names := s.cfg.Discovery.Repos
	if len(names) == 0 {
		entries, err := os.ReadDir(base)
		if err != nil {
			return nil, fmt.Errorf("discovery: reading base path: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
	}

	var repos []Repo
	for _, name := range names {
		path := filepath.Join(base, name)
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			continue
		}
		repos = append(repos, Repo{
			Name:    name,
			Path:    path,
			Remote:  remoteURL(path),
			Cluster: s.clusterFor(name),
		})
	}
	return repos, nil
}

// remoteURL reads the origin remote of a checkout. A repo without a
// usable origin still ranks; it just exports without a remote field.
func remoteURL(path string) string {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// clusterFor assigns a repo to a cluster via the configured match rules;
// the first rule whose substring matches wins.
func (s *Scanner) clusterFor(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range s.cfg.Discovery.ClusterRules {
		if strings.Contains(lower, strings.ToLower(rule.Match)) {
			return rule.Cluster
		}
	}
	return s.cfg.Discovery.DefaultCluster
}

// Edge weights of the standard center/cluster/repo topology.
const (
	centerWeight    = 2.0
	repoWeight      = 1.0
	repoToClusterW  = 1.0
	clusterToRepoW  = 0.5
	dependencyEdgeW = 0.7
)

// BuildGraph assembles the ranking graph: the center node, one node per
// catalog cluster linked bidirectionally to the center (heavier inward,
// lighter outward), one node per repo linked to its cluster, and the
// configured inter-repo dependency edges.
func BuildGraph(cfg *config.Config, repos []Repo) (*graph.Model, error) {
	m := graph.NewModel()

	center := cfg.Ranking.Center
	if err := m.AddNode(graph.Node{
		ID:      center,
		Layer:   graph.MaxLayer,
		Cluster: "center",
		Weight:  centerWeight,
	}); err != nil {
		return nil, err
	}

	// The catalog is a map; sort names so node insertion order, and
	// therefore ranking iteration order, is stable across runs.
	for _, name := range sortedClusterNames(cfg) {
		spec := cfg.Clusters[name]
		if err := m.AddNode(graph.Node{
			ID:      name,
			Layer:   spec.Layer,
			Cluster: name,
			Weight:  spec.Weight,
			URI:     spec.URI,
		}); err != nil {
			return nil, err
		}
		if err := m.AddEdge(name, center, spec.Weight); err != nil {
			return nil, err
		}
		if err := m.AddEdge(center, name, 1/spec.Weight); err != nil {
			return nil, err
		}
	}

	present := make(map[string]bool, len(repos))
	for _, r := range repos {
		spec, ok := cfg.Clusters[r.Cluster]
		if !ok {
			return nil, fmt.Errorf("discovery: repo %q assigned to unknown cluster %q", r.Name, r.Cluster)
		}
		if err := m.AddNode(graph.Node{
			ID:      r.Name,
			Layer:   spec.Layer,
			Cluster: r.Cluster,
			Weight:  repoWeight,
			URI:     r.Remote,
			Path:    r.Path,
		}); err != nil {
			return nil, err
		}
		if err := m.AddEdge(r.Name, r.Cluster, repoToClusterW); err != nil {
			return nil, err
		}
		if err := m.AddEdge(r.Cluster, r.Name, clusterToRepoW); err != nil {
			return nil, err
		}
		present[r.Name] = true
	}

	for source, targets := range cfg.Discovery.Dependencies {
		if !present[source] {
			continue
		}
		for _, target := range targets {
			if !present[target] {
				continue
			}
			if err := m.AddEdge(source, target, dependencyEdgeW); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func sortedClusterNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Clusters))
	for name := range cfg.Clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
