package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"newstyping/config"
	"newstyping/pkg/logger"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "newstyping",
	Short:         "News typing practice backend",
	Long:          "newstyping serves news-derived typing texts, keeps the article cache fresh and records typing test results.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file (default $NEWS_TYPING_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the optional YAML file and the environment, then
// starts the global logger at the configured level.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Sugar.Debug("No .env file found, using environment variables from OS")
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	logger.Init(cfg.Logging.Level)
	return cfg, nil
}
