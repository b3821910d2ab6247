package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth/internal/cli"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/tui"
)

var cablesCmd = &cobra.Command{
	Use:   "cables",
	Short: "Print the patch",
	Long:  `Assembles the rack, applies its patch and lists the resulting cables with their colors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rack, closeEngine, err := cli.BuildRack(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rack.CurrentCables())
		}
		return tui.PrintCables(out, rack.CurrentCables())
	},
}

func init() {
	rootCmd.AddCommand(cablesCmd)
	cablesCmd.Flags().Bool("json", false, "Output JSON")
}
