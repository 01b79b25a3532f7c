package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Ranking.Damping != 0.85 {
		t.Errorf("default damping = %g, want 0.85", cfg.Ranking.Damping)
	}
	if cfg.Ranking.MaxIterations != 100 {
		t.Errorf("default max iterations = %d, want 100", cfg.Ranking.MaxIterations)
	}
	if cfg.Ranking.Center == "" {
		t.Error("default center must be set")
	}
	if len(cfg.Layers) != 7 {
		t.Errorf("default layer table has %d entries, want 7", len(cfg.Layers))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ranking.Damping != 0.85 {
		t.Errorf("damping = %g, want default 0.85", cfg.Ranking.Damping)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
network: testnet
ranking:
  damping: 0.5
  center: core
clusters:
  research:
    layer: 6
    weight: 2.0
discovery:
  base_path: /srv/repos
  dependencies:
    alpha: [beta]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.Ranking.Damping != 0.5 {
		t.Errorf("damping = %g, want 0.5", cfg.Ranking.Damping)
	}
	if cfg.Ranking.Center != "core" {
		t.Errorf("center = %q, want core", cfg.Ranking.Center)
	}
	if cfg.Clusters["research"].Layer != 6 {
		t.Errorf("research layer = %d, want 6", cfg.Clusters["research"].Layer)
	}
	if cfg.Discovery.BasePath != "/srv/repos" {
		t.Errorf("base path = %q", cfg.Discovery.BasePath)
	}
	if deps := cfg.Discovery.Dependencies["alpha"]; len(deps) != 1 || deps[0] != "beta" {
		t.Errorf("dependencies = %v", cfg.Discovery.Dependencies)
	}
}

func TestLoadRejectsBadCatalog(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"bad layer":   "clusters:\n  research:\n    layer: 9\n    weight: 1.0\n",
		"bad weight":  "clusters:\n  research:\n    layer: 3\n    weight: 0\n",
		"bad rule":    "discovery:\n  cluster_rules:\n    - match: x\n      cluster: nonexistent\n",
		"no center":   "ranking:\n  center: \"\"\n",
		"bad mapping": "ranking: [not, a, mapping]\n",
	}

	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	cfgDir := filepath.Join(root, ".orbitrank")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("network: x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := FindConfigFile(nested); got != cfgPath {
		t.Errorf("FindConfigFile = %q, want %q", got, cfgPath)
	}
	if got := FindConfigFile(t.TempDir()); got != "" {
		t.Errorf("FindConfigFile in empty tree = %q, want empty", got)
	}
}
