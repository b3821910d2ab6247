package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth/internal/cli"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the rack as a Mermaid diagram",
	Long:  `Assembles the rack, applies its patch and outputs a Mermaid flowchart (graph LR) of modules and cables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rack, closeEngine, err := cli.BuildRack(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(rack.Inspect()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
