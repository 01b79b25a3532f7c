package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orbitrank/orbitrank/internal/discovery"
	"github.com/orbitrank/orbitrank/pkg/graph"
)

func newDiscoverCmd() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Scan the network and save its graph without ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(configPath, output)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: discover .orbitrank/config.yaml upward)")
	cmd.Flags().StringVar(&output, "output", "", "Save the graph snapshot to this path (default: print repo list)")

	return cmd
}

func runDiscover(configPath, output string) error {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}

	repos, err := discovery.NewScanner(cfg).Scan()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if output == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(repos)
	}

	g, err := discovery.BuildGraph(cfg, repos)
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	snap := graph.NewSnapshot(uuid.NewString(), cfg.Network, cfg.Ranking.Center, g)
	if err := graph.SaveSnapshot(output, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Snapshot saved to %s\n", output)
	fmt.Fprintf(os.Stderr, "  Nodes: %d\n", snap.Stats.NodeCount)
	fmt.Fprintf(os.Stderr, "  Edges: %d\n", snap.Stats.EdgeCount)

	return nil
}
