package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of modularsynth",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modularsynth version %s\n", modularsynth.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
