package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/lottery/internal/common/logging"
	"github.com/KirkDiggler/lottery/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalFlags select the configuration sources
type GlobalFlags struct {
	Network    string
	ConfigFile string
	EnvFile    string
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "lottery",
	Short: "Recurring lottery with verifiable randomness",
	Long: `Runs a recurring lottery: players enter for a fixed fee, and once the
round interval has elapsed a keeper requests a random word from the
randomness coordinator, which picks and pays the winner.

Configuration is layered: network preset, --config TOML file, --env-file
dotenv file, then the process environment.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.Network, "network", "n", "", "network preset: development|sepolia (default development, or LOTTERY_NETWORK)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.EnvFile, "env-file", "", "dotenv file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadConfig reads configuration from the sources named by the global flags
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(&config.LoadInput{
		Network: globalFlags.Network,
		File:    globalFlags.ConfigFile,
		EnvFile: globalFlags.EnvFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(&logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
