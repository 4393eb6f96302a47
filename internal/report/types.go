// Package report writes the run artifacts: the annotated prediction
// table as CSV and the run summary workbook. The analysis core never
// touches the filesystem; all output goes through here.
package report

import (
	"time"

	"disclosures/internal/dataset"
	"disclosures/internal/knn"
)

// Row is one held-out transaction annotated with the model's prediction
// and the fairness proxy flag.
type Row struct {
	Representative  string
	Ticker          string
	TransactionDate time.Time
	Amount          string
	Type            string
	Party           string
	PredictedParty  string
	HasHonorific    bool
}

// Summary is the headline result set of one analysis run.
type Summary struct {
	RunID       string
	GeneratedAt time.Time

	Stats        dataset.CleanStats
	TrainRecords int
	TestRecords  int

	Best             knn.Options
	CVAccuracy       float64
	TestAccuracy     float64
	BaselineAccuracy float64 // majority-class accuracy on the held-out set

	MarkerRecall float64
	OtherRecall  float64
	RecallGap    float64
	PValue       float64
	Permutations int
}
