// Command party-report runs the full disclosure analysis: load the feed,
// clean it, engineer features, tune and fit the KNN party classifier,
// evaluate fairness across the honorific proxy, and export the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"disclosures/internal/config"
	"disclosures/internal/dataset"
	"disclosures/internal/domain"
	"disclosures/internal/fairness"
	"disclosures/internal/features"
	"disclosures/internal/fetch"
	"disclosures/internal/infrastructure"
	"disclosures/internal/knn"
	"disclosures/internal/report"
)

func main() {
	input := flag.String("input", "", "cached feed JSON (defaults to the data dir cache; fetched remotely when absent)")
	rosterPath := flag.String("roster", "", "roster text file (defaults to the configured source)")
	seed := flag.Int64("seed", 0, "override the configured random seed")
	permutations := flag.Int("permutations", 0, "override the configured permutation count")
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

	if *seed != 0 {
		cfg.Analysis.Seed = *seed
	}
	if *permutations != 0 {
		cfg.Analysis.Permutations = *permutations
	}
	if *rosterPath == "" {
		*rosterPath = cfg.Sources.RosterFile
	}

	if err := run(cfg, *input, *rosterPath, logger); err != nil {
		logger.Error("Analysis run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, input, rosterPath string, logger *slog.Logger) error {
	ctx := context.Background()
	runID := uuid.New().String()
	start := time.Now()
	logger.Info("starting analysis run", "run_id", runID, "seed", cfg.Analysis.Seed)

	raw, err := loadFeed(ctx, cfg, input, logger)
	if err != nil {
		return err
	}

	roster, err := fetch.LoadRoster(rosterPath)
	if err != nil {
		return err
	}
	logger.Info("loaded roster", "entries", len(roster))

	cleaner := dataset.NewCleaner(cfg.Analysis.MinYear, roster, logger)
	cleaned, stats := cleaner.Clean(raw)
	if len(cleaned) < 2 {
		return fmt.Errorf("too few cleaned records to analyze: %d", len(cleaned))
	}

	trainIdx, testIdx, err := knn.Split(len(cleaned), cfg.Analysis.TestFraction, cfg.Analysis.Seed)
	if err != nil {
		return fmt.Errorf("split dataset: %w", err)
	}
	trainTxs := subset(cleaned, trainIdx)
	testTxs := subset(cleaned, testIdx)

	// The affinity encoder sees the full cleaned dataset unless the
	// leakage-control flag restricts it to the training partition.
	affinitySource := cleaned
	if cfg.Analysis.TrainOnlyAffinity {
		affinitySource = trainTxs
	}
	builder := features.Fit(trainTxs, affinitySource, cfg.Analysis, logger)

	trainX, trainY := builder.Transform(trainTxs)
	testX, testY := builder.Transform(testTxs)

	grid := knn.DefaultGrid(cfg.Analysis.NeighborsMin, cfg.Analysis.NeighborsMax)
	search, err := knn.GridSearch(ctx, trainX, trainY, grid, cfg.Analysis.CVFolds, logger)
	if err != nil {
		return fmt.Errorf("hyperparameter search: %w", err)
	}

	clf, err := knn.NewClassifier(search.Best)
	if err != nil {
		return fmt.Errorf("build classifier: %w", err)
	}
	if err := clf.Fit(trainX, trainY); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	preds, err := clf.Predict(testX)
	if err != nil {
		return fmt.Errorf("predict held-out set: %w", err)
	}

	accuracy := knn.Accuracy(preds, testY)
	majority := knn.Majority(trainY)
	baseline := majorityAccuracy(testY, majority)
	logger.Info("evaluated classifier",
		"test_accuracy", accuracy,
		"baseline_accuracy", baseline,
		"cv_accuracy", search.BestScore,
	)

	names := make([]string, len(testTxs))
	for i, tx := range testTxs {
		names[i] = tx.Representative
	}
	proxy := fairness.ProxyAttribute(names, cfg.Analysis.Honorifics)

	fair, err := fairness.PermutationTest(ctx, preds, testY, proxy,
		cfg.Analysis.Permutations, cfg.Analysis.Seed, logger)
	if err != nil {
		return fmt.Errorf("fairness evaluation: %w", err)
	}

	writer := report.NewWriter(logger)
	rows := make([]report.Row, len(testTxs))
	for i, tx := range testTxs {
		rows[i] = report.Row{
			Representative:  tx.Representative,
			Ticker:          tx.Ticker,
			TransactionDate: tx.TransactionDate,
			Amount:          tx.Amount,
			Type:            tx.Type,
			Party:           string(tx.Party),
			PredictedParty:  preds[i],
			HasHonorific:    proxy[i],
		}
	}
	if err := writer.WritePredictions(cfg.PredictionsPath(), rows); err != nil {
		return fmt.Errorf("write predictions: %w", err)
	}

	summary := report.Summary{
		RunID:            runID,
		GeneratedAt:      time.Now(),
		Stats:            stats,
		TrainRecords:     len(trainTxs),
		TestRecords:      len(testTxs),
		Best:             search.Best,
		CVAccuracy:       search.BestScore,
		TestAccuracy:     accuracy,
		BaselineAccuracy: baseline,
		MarkerRecall:     fair.MarkerRecall,
		OtherRecall:      fair.OtherRecall,
		RecallGap:        fair.ObservedGap,
		PValue:           fair.PValue,
		Permutations:     fair.Iterations,
	}
	if err := writer.WriteSummary(cfg.SummaryPath(), summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	logger.Info("analysis run completed",
		"run_id", runID,
		"duration", time.Since(start),
		"recall_gap", fair.ObservedGap,
		"p_value", fair.PValue,
	)
	return nil
}

// loadFeed reads the cached feed when available and falls back to the
// remote source otherwise.
func loadFeed(ctx context.Context, cfg *config.Config, input string, logger *slog.Logger) ([]domain.RawTransaction, error) {
	path := input
	if path == "" {
		path = cfg.FeedCachePath()
	}

	if file, err := os.Open(path); err == nil {
		defer file.Close()
		logger.Info("loading cached feed", "path", path)
		records, err := fetch.ReadTransactions(file)
		if err != nil {
			return nil, fmt.Errorf("read cached feed %s: %w", path, err)
		}
		return records, nil
	} else if input != "" {
		// An explicitly requested cache that cannot be opened is an error;
		// only the default cache silently falls back to the network.
		return nil, fmt.Errorf("open feed cache %s: %w", input, err)
	}

	client := fetch.NewClient(cfg.Sources, logger)
	return client.FetchTransactions(ctx)
}

func subset(txs []domain.Transaction, indices []int) []domain.Transaction {
	out := make([]domain.Transaction, len(indices))
	for i, idx := range indices {
		out[i] = txs[idx]
	}
	return out
}

func majorityAccuracy(labels []string, majority string) float64 {
	if len(labels) == 0 {
		return 0
	}
	correct := 0
	for _, label := range labels {
		if label == majority {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}
