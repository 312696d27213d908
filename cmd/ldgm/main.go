// SPDX-License-Identifier: MIT

// Command ldgm estimates sparse LDGM precision matrices.
//
//	ldgm estimate --config ldgm.yaml [--penalty 0.1 ...]
//	ldgm closure --input bricks.edgelist --output ldgm.edgelist --threshold 4
//	ldgm closure --input nodes.edgelist --stride 4 --in-offset 2 --out-offset 3
//	ldgm version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ldgm/internal/logger"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ldgm",
		Short: "Estimate sparse LD precision matrices on LDGM graphs",
		Long: `ldgm aligns an LDGM graph with a reference panel, filters and patches
the graph, and fits a sparse precision matrix whose inverse matches the
panel's correlations on the graph's support.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("log-mode", "dev", "Log encoding: dev|prod")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Run the full estimation pipeline",
		RunE:  runEstimate,
	}
	addEstimateFlags(estimateCmd)

	closureCmd := &cobra.Command{
		Use:   "closure",
		Short: "Build a weighted LDGM from a distance-weighted brick graph",
		RunE:  runClosure,
	}
	closureCmd.Flags().String("input", "", "Distance edge list (i,j,length); - for stdin")
	closureCmd.Flags().String("output", "-", "Weighted edge list output; - for stdout")
	closureCmd.Flags().Float64("threshold", 4, "Largest path length that yields an edge")
	closureCmd.Flags().Bool("directed", false, "Treat rows as one-way arcs")
	closureCmd.Flags().Int("workers", 1, "Concurrent shortest-path searches")
	closureCmd.Flags().Int("stride", 1, "Graph nodes per brick; 1 makes every node a brick")
	closureCmd.Flags().Int("in-offset", 0, "Entry node of a brick within its stride")
	closureCmd.Flags().Int("out-offset", 0, "Exit node of a brick within its stride")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ldgm", version)
		},
	}

	rootCmd.AddCommand(estimateCmd, closureCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the logger selected by the persistent flags.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	level, _ := cmd.Flags().GetString("log-level")

	return logger.New(mode, level)
}
