package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"disclosures/internal/config"
	"disclosures/internal/fetch"
	"disclosures/internal/infrastructure"
)

func main() {
	output := flag.String("out", "", "output path for the cached feed (defaults to <data_dir>/all_transactions.json)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLogger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer closeLogger()

	if err := cfg.EnsureDirs(); err != nil {
		logger.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	if *output == "" {
		*output = cfg.FeedCachePath()
	}

	if err := run(cfg, *output, logger); err != nil {
		logger.Error("Feed download failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Feed download completed", "path", *output)
}

func run(cfg *config.Config, output string, logger *slog.Logger) error {
	ctx := context.Background()

	client := fetch.NewClient(cfg.Sources, logger)
	records, err := client.FetchTransactions(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("feed returned no records")
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed cache: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write feed cache: %w", err)
	}
	return nil
}
