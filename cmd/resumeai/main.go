package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"resumeai/internal/cli"
	"resumeai/internal/config"
	"resumeai/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A .env file is optional; values already in the environment win
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("Starting resumeai",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"taxonomy_file", cfg.Engine.TaxonomyFile)

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}

// loadConfig reads RESUMEAI_CONFIG_FILE when set, otherwise searches the
// default config locations.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); path != "" {
		return config.LoadFile(path)
	}
	return config.LoadConfig()
}
