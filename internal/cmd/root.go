// Package cmd holds the cobra commands of the store binary.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gadgetstore/internal/config"
	"gadgetstore/internal/logs"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "store",
	Short: "Gadget store API and back-office tools",
	Long: `store runs the gadget shop HTTP API and the maintenance tasks around it:
schema migration, seeding, and the promotion countdown.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger every command uses.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logs.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
