package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth/internal/presentation/tui"
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Show the patching guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		render, err := tui.NewRenderer(tui.IsTerminal(os.Stdout))
		if err != nil {
			return err
		}
		out, err := render(tui.Manual())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manualCmd)
}
