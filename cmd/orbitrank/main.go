// Package main provides the orbitrank CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitrank",
		Short: "Bidirectional importance ranking for repository networks",
		Long: `Orbitrank discovers the repositories of a network, builds the layered
graph around its center, and ranks every node with bidirectional
personalized PageRank.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newRankCmd(),
		newComputeCmd(),
		newDiscoverCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
