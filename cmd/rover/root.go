package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/rover/internal/config"
	"github.com/aretw0/rover/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rover",
	Short: "Rover drives a grid robot implemented with four design patterns",
	Long: `Rover moves a robot on an unbounded grid with L (turn left), R (turn right)
and A (advance) instructions. The same robot is implemented four times
(no_pattern, command, state, type_state); one is picked at startup.`,
	SilenceUsage: true,
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
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("pattern", "P", "", "Robot implementation: no_pattern, command, state or type_state")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig merges the config file, the environment and the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("pattern") {
		cfg.Pattern, _ = cmd.Flags().GetString("pattern")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	return cfg, logging.New(level, cfg.Log.Format), nil
}
