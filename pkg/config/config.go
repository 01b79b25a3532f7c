// Package config handles loading and managing orbitrank configuration.
// The layer-name table and cluster catalog live here as injected data,
// not engine constants, so the ranking engine stays reusable for any
// layered-graph domain.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

// Config is the top-level configuration for orbitrank.
type Config struct {
	Network   string                 `yaml:"network"`
	Ranking   RankingConfig          `yaml:"ranking"`
	Layers    map[int]string         `yaml:"layers"`
	Clusters  map[string]ClusterSpec `yaml:"clusters"`
	Discovery DiscoveryConfig        `yaml:"discovery"`
}

// RankingConfig controls the solver and the harmonization center.
type RankingConfig struct {
	Damping       float64 `yaml:"damping"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Center        string  `yaml:"center"`
}

// ClusterSpec describes one cluster in the catalog.
type ClusterSpec struct {
	URI    string  `yaml:"uri"`
	Layer  int     `yaml:"layer"`
	Mode   string  `yaml:"mode"`
	Weight float64 `yaml:"weight"`
}

// DiscoveryConfig controls local repository scanning.
type DiscoveryConfig struct {
	BasePath string   `yaml:"base_path"`
	Repos    []string `yaml:"repos"` // empty means every git checkout under base_path

	// ClusterRules assign repos to clusters by substring match, in
	// order; the first matching rule wins.
	ClusterRules   []ClusterRule `yaml:"cluster_rules"`
	DefaultCluster string        `yaml:"default_cluster"`

	// Dependencies lists known repo-to-repo links: map from a repo name
	// to the repos it depends on.
	Dependencies map[string][]string `yaml:"dependencies"`
}

// ClusterRule maps a repo-name substring to a cluster label.
type ClusterRule struct {
	Match   string `yaml:"match"`
	Cluster string `yaml:"cluster"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Network: "orbit",
		Ranking: RankingConfig{
			Damping:       0.85,
			MaxIterations: 100,
			Tolerance:     1e-6,
			Center:        "hub",
		},
		Layers: map[int]string{
			7: "Vision",
			6: "Philosophy",
			5: "Research",
			4: "Development",
			3: "Community",
			2: "Operations",
			1: "Foundation",
		},
		Clusters: map[string]ClusterSpec{
			"research":    {Layer: 7, Mode: "analysis", Weight: 1.5},
			"patents":     {Layer: 5, Mode: "analysis", Weight: 1.4},
			"development": {Layer: 4, Mode: "delivery", Weight: 1.3},
			"community":   {Layer: 3, Mode: "dialogue", Weight: 1.0},
		},
		Discovery: DiscoveryConfig{
			DefaultCluster: "research",
			ClusterRules: []ClusterRule{
				{Match: "patent", Cluster: "patents"},
				{Match: "community", Cluster: "community"},
			},
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the domain tables for internally consistent values.
// Solver parameter bounds are enforced by the engine itself; this guards
// the catalog data the engine cannot see.
func (c *Config) Validate() error {
	if c.Ranking.Center == "" {
		return fmt.Errorf("config: ranking.center must be set")
	}
	for name, spec := range c.Clusters {
		if spec.Layer < graph.MinLayer || spec.Layer > graph.MaxLayer {
			return fmt.Errorf("config: cluster %q layer %d outside [%d,%d]", name, spec.Layer, graph.MinLayer, graph.MaxLayer)
		}
		if spec.Weight <= 0 {
			return fmt.Errorf("config: cluster %q has non-positive weight %g", name, spec.Weight)
		}
	}
	for layer := range c.Layers {
		if layer < graph.MinLayer || layer > graph.MaxLayer {
			return fmt.Errorf("config: layer name for %d outside [%d,%d]", layer, graph.MinLayer, graph.MaxLayer)
		}
	}
	for _, rule := range c.Discovery.ClusterRules {
		if _, ok := c.Clusters[rule.Cluster]; !ok {
			return fmt.Errorf("config: cluster rule %q targets unknown cluster %q", rule.Match, rule.Cluster)
		}
	}
	return nil
}

// FindConfigFile looks for .orbitrank/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".orbitrank", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
