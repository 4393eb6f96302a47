package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" envconfig:"SOURCES"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// SourcesConfig contains the external data source configuration
type SourcesConfig struct {
	FeedURL           string        `yaml:"feed_url" envconfig:"FEED_URL" default:"https://house-stock-watcher-data.s3-us-west-2.amazonaws.com/data/all_transactions.json" validate:"required,url"`
	RosterFile        string        `yaml:"roster_file" envconfig:"ROSTER_FILE" default:"data/representatives.txt" validate:"required"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT" default:"60s" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"2" validate:"gt=0"`
	Burst             int           `yaml:"burst" envconfig:"BURST" default:"1" validate:"gte=1"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/disclosures.log"`
}

// AnalysisConfig contains the tunable parameters of the analysis run
type AnalysisConfig struct {
	// MinYear is the transaction-year cutoff; earlier filings are
	// unreliable and dropped during cleaning.
	MinYear int `yaml:"min_year" envconfig:"MIN_YEAR" default:"2018" validate:"gte=2012"`

	// AffinityThreshold is the party share above which a ticker counts
	// as leaning toward that party.
	AffinityThreshold float64 `yaml:"affinity_threshold" envconfig:"AFFINITY_THRESHOLD" default:"0.6" validate:"gt=0.5,lt=1"`

	// TrainOnlyAffinity fits ticker affinities on the training partition
	// only. The default computes them over the full labeled dataset,
	// which leaks outcome statistics into a feature; see
	// features.AffinityEncoder.
	TrainOnlyAffinity bool `yaml:"train_only_affinity" envconfig:"TRAIN_ONLY_AFFINITY" default:"false"`

	// LegacyBranchOrder keeps the historical encoder precedence, where
	// the general leaning set is checked before the Republican set.
	LegacyBranchOrder bool `yaml:"legacy_branch_order" envconfig:"LEGACY_BRANCH_ORDER" default:"true"`

	DayBuckets DayBucketsConfig `yaml:"day_buckets" envconfig:"DAY_BUCKETS"`

	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION" default:"0.25" validate:"gt=0,lt=1"`
	Seed         int64   `yaml:"seed" envconfig:"SEED" default:"42"`
	CVFolds      int     `yaml:"cv_folds" envconfig:"CV_FOLDS" default:"2" validate:"gte=2"`
	NeighborsMin int     `yaml:"neighbors_min" envconfig:"NEIGHBORS_MIN" default:"1" validate:"gte=1"`
	NeighborsMax int     `yaml:"neighbors_max" envconfig:"NEIGHBORS_MAX" default:"29" validate:"gtefield=NeighborsMin"`

	// Permutations is the resample count of the fairness permutation
	// test. 100 keeps runs fast; raise it for more statistical power.
	Permutations int `yaml:"permutations" envconfig:"PERMUTATIONS" default:"100" validate:"gte=1"`

	// Honorifics are the name markers that define the fairness proxy
	// attribute.
	Honorifics []string `yaml:"honorifics" envconfig:"HONORIFICS" default:"Mr.,Mrs.,Ms.,Dr."`
}

// DayBucketsConfig is the day-of-month bucket table of the swing-day
// encoder. The defaults are constants calibrated from a one-time
// exploratory pass over a dataset snapshot (75th-percentile threshold of
// day-level party-proportion differences), kept as configuration so they
// can be recalibrated against a newer snapshot.
type DayBucketsConfig struct {
	HighContrastDays []int `yaml:"high_contrast_days" envconfig:"HIGH_CONTRAST_DAYS" default:"3,5"`
	MidContrastDays  []int `yaml:"mid_contrast_days" envconfig:"MID_CONTRAST_DAYS" default:"10"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("DISCLOSURES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("DISCLOSURES_CONFIG_FILE"); path != "" {
		return path
	}
	return "disclosures.yaml"
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// Boolean fields keep their env-derived values; zero values elsewhere are
// filled from the file.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Sources.FeedURL == "" {
		envConfig.Sources.FeedURL = fileConfig.Sources.FeedURL
	}
	if envConfig.Sources.RosterFile == "" {
		envConfig.Sources.RosterFile = fileConfig.Sources.RosterFile
	}
	if envConfig.Sources.HTTPTimeout == 0 {
		envConfig.Sources.HTTPTimeout = fileConfig.Sources.HTTPTimeout
	}
	if envConfig.Sources.RequestsPerSecond == 0 {
		envConfig.Sources.RequestsPerSecond = fileConfig.Sources.RequestsPerSecond
	}
	if envConfig.Sources.Burst == 0 {
		envConfig.Sources.Burst = fileConfig.Sources.Burst
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Analysis.MinYear == 0 {
		envConfig.Analysis.MinYear = fileConfig.Analysis.MinYear
	}
	if envConfig.Analysis.AffinityThreshold == 0 {
		envConfig.Analysis.AffinityThreshold = fileConfig.Analysis.AffinityThreshold
	}
	if len(envConfig.Analysis.DayBuckets.HighContrastDays) == 0 {
		envConfig.Analysis.DayBuckets.HighContrastDays = fileConfig.Analysis.DayBuckets.HighContrastDays
	}
	if len(envConfig.Analysis.DayBuckets.MidContrastDays) == 0 {
		envConfig.Analysis.DayBuckets.MidContrastDays = fileConfig.Analysis.DayBuckets.MidContrastDays
	}
	if envConfig.Analysis.TestFraction == 0 {
		envConfig.Analysis.TestFraction = fileConfig.Analysis.TestFraction
	}
	if envConfig.Analysis.Seed == 0 {
		envConfig.Analysis.Seed = fileConfig.Analysis.Seed
	}
	if envConfig.Analysis.CVFolds == 0 {
		envConfig.Analysis.CVFolds = fileConfig.Analysis.CVFolds
	}
	if envConfig.Analysis.NeighborsMin == 0 {
		envConfig.Analysis.NeighborsMin = fileConfig.Analysis.NeighborsMin
	}
	if envConfig.Analysis.NeighborsMax == 0 {
		envConfig.Analysis.NeighborsMax = fileConfig.Analysis.NeighborsMax
	}
	if envConfig.Analysis.Permutations == 0 {
		envConfig.Analysis.Permutations = fileConfig.Analysis.Permutations
	}
	if len(envConfig.Analysis.Honorifics) == 0 {
		envConfig.Analysis.Honorifics = fileConfig.Analysis.Honorifics
	}

	return envConfig
}

// Validate checks the configuration using struct validation tags plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, day := range c.Analysis.DayBuckets.HighContrastDays {
		if day < 1 || day > 31 {
			return fmt.Errorf("invalid high-contrast day %d: must be 1-31", day)
		}
	}
	for _, day := range c.Analysis.DayBuckets.MidContrastDays {
		if day < 1 || day > 31 {
			return fmt.Errorf("invalid mid-contrast day %d: must be 1-31", day)
		}
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path required for output mode %q", c.Logging.Output)
	}

	return nil
}
