package features

import (
	"log/slog"

	"disclosures/internal/config"
	"disclosures/internal/domain"
)

// Column order of the feature matrix.
const (
	ColAmount = iota
	ColType
	ColCapGains
	ColTickerAffinity
	ColDayBucket
	NumColumns
)

// Builder holds the five fitted encoders and assembles feature rows.
type Builder struct {
	amount   *FrequencyEncoder
	txType   *FrequencyEncoder
	affinity *AffinityEncoder
	day      *DayBucketEncoder
}

// Fit fits the encoders. Frequency vocabularies always come from
// trainRows; affinitySource carries the rows the ticker encoder may see,
// which is either the full cleaned dataset (a leaky posture that folds
// label statistics into a feature) or the training rows only, per
// configuration.
func Fit(trainRows, affinitySource []domain.Transaction, cfg config.AnalysisConfig, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	amounts := make([]string, len(trainRows))
	types := make([]string, len(trainRows))
	for i, tx := range trainRows {
		amounts[i] = tx.Amount
		types[i] = tx.Type
	}

	b := &Builder{
		amount:   FitFrequency(amounts),
		txType:   FitFrequency(types),
		affinity: FitAffinity(affinitySource, cfg.AffinityThreshold, cfg.LegacyBranchOrder, logger),
		day:      NewDayBucketEncoder(cfg.DayBuckets.HighContrastDays, cfg.DayBuckets.MidContrastDays),
	}

	logger.Info("fitted feature encoders",
		"amount_labels", b.amount.Len(),
		"type_labels", b.txType.Len(),
		"leaning_tickers", b.affinity.LeaningCount(),
		"train_only_affinity", cfg.TrainOnlyAffinity,
	)
	return b
}

// Row encodes a single transaction into its feature vector.
func (b *Builder) Row(tx domain.Transaction) []float64 {
	row := make([]float64, NumColumns)
	row[ColAmount] = float64(b.amount.Code(tx.Amount))
	row[ColType] = float64(b.txType.Code(tx.Type))
	row[ColCapGains] = float64(boolCode(tx.CapGainsOver200))
	row[ColTickerAffinity] = float64(b.affinity.Code(tx.Ticker))
	row[ColDayBucket] = float64(b.day.Code(tx.TransactionDate.Day()))
	return row
}

// Transform encodes transactions into a feature matrix and the matching
// party label vector.
func (b *Builder) Transform(txs []domain.Transaction) ([][]float64, []string) {
	matrix := make([][]float64, len(txs))
	labels := make([]string, len(txs))
	for i, tx := range txs {
		matrix[i] = b.Row(tx)
		labels[i] = string(tx.Party)
	}
	return matrix, labels
}
