package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCLOSURES_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.Sources.FeedURL, "all_transactions.json")
	assert.Equal(t, 60*time.Second, cfg.Sources.HTTPTimeout)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Equal(t, 2018, cfg.Analysis.MinYear)
	assert.Equal(t, 0.6, cfg.Analysis.AffinityThreshold)
	assert.False(t, cfg.Analysis.TrainOnlyAffinity)
	assert.True(t, cfg.Analysis.LegacyBranchOrder)
	assert.Equal(t, []int{3, 5}, cfg.Analysis.DayBuckets.HighContrastDays)
	assert.Equal(t, []int{10}, cfg.Analysis.DayBuckets.MidContrastDays)
	assert.Equal(t, 0.25, cfg.Analysis.TestFraction)
	assert.Equal(t, 2, cfg.Analysis.CVFolds)
	assert.Equal(t, 1, cfg.Analysis.NeighborsMin)
	assert.Equal(t, 29, cfg.Analysis.NeighborsMax)
	assert.Equal(t, 100, cfg.Analysis.Permutations)
	assert.Equal(t, []string{"Mr.", "Mrs.", "Ms.", "Dr."}, cfg.Analysis.Honorifics)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DISCLOSURES_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCLOSURES_ANALYSIS_MIN_YEAR", "2020")
	t.Setenv("DISCLOSURES_ANALYSIS_PERMUTATIONS", "500")
	t.Setenv("DISCLOSURES_LOGGING_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2020, cfg.Analysis.MinYear)
	assert.Equal(t, 500, cfg.Analysis.Permutations)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "disclosures.yaml")
	content := `
analysis:
  seed: 7
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("DISCLOSURES_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)
	// Env defaults leave Seed at 42; this documents env-over-file precedence.
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold at half", func(c *Config) { c.Analysis.AffinityThreshold = 0.5 }},
		{"threshold above one", func(c *Config) { c.Analysis.AffinityThreshold = 1.2 }},
		{"test fraction zero", func(c *Config) { c.Analysis.TestFraction = 0 }},
		{"neighbors max below min", func(c *Config) { c.Analysis.NeighborsMin = 10; c.Analysis.NeighborsMax = 5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"day out of range", func(c *Config) { c.Analysis.DayBuckets.HighContrastDays = []int{32} }},
		{"file output without path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCLOSURES_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirs())
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.ReportsDir, cfg.Paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
