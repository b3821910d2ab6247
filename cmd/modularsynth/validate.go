package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [rack-file]",
	Short: "Check a rack file for consistency",
	Long:  `Builds every module of the rack file and resolves every cable end without an engine. All problems are reported at once.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.RackFile
		if len(args) > 0 {
			path = args[0]
		}

		f, err := cli.LoadRackFile(path)
		if err != nil {
			return err
		}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rack is valid! ✅ (%d modules, %d cables)\n", len(f.Modules), len(f.Patch))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
