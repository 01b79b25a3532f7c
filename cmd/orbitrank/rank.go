package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orbitrank/orbitrank/internal/discovery"
	"github.com/orbitrank/orbitrank/pkg/config"
	"github.com/orbitrank/orbitrank/pkg/graph"
	"github.com/orbitrank/orbitrank/pkg/manifest"
	"github.com/orbitrank/orbitrank/pkg/ranking"
	"github.com/orbitrank/orbitrank/pkg/surface"
)

func newRankCmd() *cobra.Command {
	var (
		configPath string
		center     string
		damping    float64
		output     string
		topN       int
		export     string
		saveGraph  string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Discover the network and rank every node",
		Long:  `Scans the configured base path for repositories, builds the layered graph, and runs the three ranking passes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.Context(), rankOpts{
				configPath: configPath,
				center:     center,
				damping:    damping,
				output:     output,
				topN:       topN,
				export:     export,
				saveGraph:  saveGraph,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: discover .orbitrank/config.yaml upward)")
	cmd.Flags().StringVar(&center, "center", "", "Center node ID (default: from config)")
	cmd.Flags().Float64Var(&damping, "damping", 0, "Damping factor override (0 = use config)")
	cmd.Flags().StringVar(&output, "output", "text", "Output format: text, json, or rankfile")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of ranked nodes to show in text output")
	cmd.Flags().StringVar(&export, "export", "", "Also write a rankfile to this path")
	cmd.Flags().StringVar(&saveGraph, "save-graph", "", "Also save the discovered graph snapshot to this path")

	return cmd
}

type rankOpts struct {
	configPath string
	center     string
	damping    float64
	output     string
	topN       int
	export     string
	saveGraph  string
}

func runRank(ctx context.Context, opts rankOpts) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.center != "" {
		cfg.Ranking.Center = opts.center
	}
	if opts.damping != 0 {
		cfg.Ranking.Damping = opts.damping
	}

	fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.Discovery.BasePath)
	repos, err := discovery.NewScanner(cfg).Scan()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Found %d repositories\n", len(repos))

	g, err := discovery.BuildGraph(cfg, repos)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	if opts.saveGraph != "" {
		snap := graph.NewSnapshot(uuid.NewString(), cfg.Network, cfg.Ranking.Center, g)
		if err := graph.SaveSnapshot(opts.saveGraph, snap); err != nil {
			return fmt.Errorf("saving graph: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Graph saved to %s\n", opts.saveGraph)
	}

	report, err := rankGraph(ctx, cfg, g)
	if err != nil {
		return err
	}

	return renderReport(cfg, g, report, opts.output, opts.topN, opts.export)
}

// rankGraph builds an engine from the config and runs it.
func rankGraph(ctx context.Context, cfg *config.Config, g *graph.Model) (*ranking.Report, error) {
	engine := ranking.NewEngine(cfg.Ranking.Center)
	engine.Solver.Damping = cfg.Ranking.Damping
	engine.Solver.MaxIterations = cfg.Ranking.MaxIterations
	engine.Solver.Tolerance = cfg.Ranking.Tolerance

	start := time.Now()
	fmt.Fprintf(os.Stderr, "Ranking %d nodes around %s...\n", g.NodeCount(), cfg.Ranking.Center)
	report, err := engine.Rank(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Done in %dms\n", time.Since(start).Milliseconds())
	return report, nil
}

func renderReport(cfg *config.Config, g *graph.Model, report *ranking.Report, output string, topN int, export string) error {
	m := manifest.Build(cfg, g, report)

	renderer := surface.ByFormat(output)
	if tr, ok := renderer.(*surface.TerminalRenderer); ok {
		tr.TopN = topN
	}
	if err := renderer.Render(os.Stdout, m); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	if export != "" {
		if err := os.MkdirAll(filepath.Dir(export), 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
		f, err := os.Create(export)
		if err != nil {
			return fmt.Errorf("creating rankfile: %w", err)
		}
		defer f.Close()
		if err := (&surface.RankfileRenderer{}).Render(f, m); err != nil {
			return fmt.Errorf("writing rankfile: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Rankfile written to %s\n", export)
	}

	return nil
}

// resolveConfig loads the named config file, or discovers one upward
// from the working directory, or falls back to defaults.
func resolveConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	if found := config.FindConfigFile(cwd); found != "" {
		cfg, err := config.Load(found)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
			return config.DefaultConfig(), nil
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}
