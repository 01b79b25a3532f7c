package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitrank/orbitrank/pkg/graph"
)

func newComputeCmd() *cobra.Command {
	var (
		configPath string
		center     string
		output     string
		topN       int
		export     string
	)

	cmd := &cobra.Command{
		Use:   "compute <snapshot.json>",
		Short: "Rank a previously saved graph snapshot",
		Long:  `Loads a graph snapshot from disk and runs the ranking passes without rescanning the network.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd.Context(), args[0], computeOpts{
				configPath: configPath,
				center:     center,
				output:     output,
				topN:       topN,
				export:     export,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: discover .orbitrank/config.yaml upward)")
	cmd.Flags().StringVar(&center, "center", "", "Center node ID (default: from snapshot)")
	cmd.Flags().StringVar(&output, "output", "text", "Output format: text, json, or rankfile")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of ranked nodes to show in text output")
	cmd.Flags().StringVar(&export, "export", "", "Also write a rankfile to this path")

	return cmd
}

type computeOpts struct {
	configPath string
	center     string
	output     string
	topN       int
	export     string
}

func runCompute(ctx context.Context, path string, opts computeOpts) error {
	snap, err := graph.LoadSnapshot(path)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	g, err := snap.Model()
	if err != nil {
		return fmt.Errorf("rebuilding graph: %w", err)
	}

	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	// The snapshot carries its own center; flags still win.
	if snap.Center != "" {
		cfg.Ranking.Center = snap.Center
	}
	if opts.center != "" {
		cfg.Ranking.Center = opts.center
	}
	if snap.Network != "" {
		cfg.Network = snap.Network
	}

	report, err := rankGraph(ctx, cfg, g)
	if err != nil {
		return err
	}

	return renderReport(cfg, g, report, opts.output, opts.topN, opts.export)
}
