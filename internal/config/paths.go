package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDirs creates the data, reports and logs directories if they do
// not exist yet. Paths are taken as-is when absolute and resolved against
// the working directory otherwise.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FeedCachePath returns the local cache location of the disclosure feed.
func (c *Config) FeedCachePath() string {
	return filepath.Join(c.Paths.DataDir, "all_transactions.json")
}

// PredictionsPath returns the CSV output location for annotated predictions.
func (c *Config) PredictionsPath() string {
	return filepath.Join(c.Paths.ReportsDir, "party_predictions.csv")
}

// SummaryPath returns the Excel output location for the run summary.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.Paths.ReportsDir, "party_report.xlsx")
}
