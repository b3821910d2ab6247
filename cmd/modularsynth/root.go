package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaroNakasendo/modularsynth/internal/config"
	"github.com/TaroNakasendo/modularsynth/internal/logging"
)

var (
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "modularsynth",
	Short: "modularsynth is the patch engine of a virtual modular synthesizer",
	Long: `modularsynth assembles a rack of modules, keeps the patch of cables between
their jacks and drives a signal engine to carry the connections.

Configuration is read from MODULARSYNTH_* environment variables (and a .env
file when present); flags override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logging.NewWithWriter(os.Stderr, level, cfg.LogJSON)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("rack", "", "Rack file (YAML or JSON); the built-in rack when empty")
	rootCmd.PersistentFlags().String("engine", "", "Signal engine: memory or redis")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis engine")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().Float64("click-threshold", 0, "Pointer travel under which a release counts as a click")
}

// applyFlags overrides config values with the flags the user set explicitly.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("rack") {
		cfg.RackFile, _ = flags.GetString("rack")
	}
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("click-threshold") {
		cfg.ClickThreshold, _ = flags.GetFloat64("click-threshold")
	}
}
