package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dakar-auto-scraper/config"
	"dakar-auto-scraper/utils"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "dakar-auto-scraper",
	Short:         "Scrapes vehicle listings from dakar-auto.com into CSV tables.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to an env file with DAKAR_* settings (default: ./.env if present).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}

	logger := utils.NewLogger(utils.LogConfig{
		Writer: os.Stderr,
		Level:  utils.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
	return cfg, logger, nil
}
