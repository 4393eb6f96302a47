package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"disclosures/internal/dataset"
	"disclosures/internal/knn"
)

func TestWritePredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "party_predictions.csv")
	rows := []Row{
		{
			Representative:  "Mr. David McKinley",
			Ticker:          "MSFT",
			TransactionDate: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
			Amount:          "$1,001 - $15,000",
			Type:            "purchase",
			Party:           "Republican",
			PredictedParty:  "Democrat",
			HasHonorific:    true,
		},
		{
			Representative: "Josh Gottheimer",
			Party:          "Democrat",
			PredictedParty: "Democrat",
		},
	}

	w := NewWriter(nil)
	require.NoError(t, w.WritePredictions(path, rows))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, predictionHeaders, records[0])
	assert.Equal(t, []string{
		"Mr. David McKinley", "MSFT", "2021-03-15",
		"$1,001 - $15,000", "purchase", "Republican", "Democrat", "true",
	}, records[1])
	assert.Equal(t, "", records[2][2], "zero date renders empty")
	assert.Equal(t, "false", records[2][7])
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party_report.xlsx")
	s := Summary{
		RunID:        "run-123",
		GeneratedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Stats:        dataset.CleanStats{Raw: 10, Kept: 8, DroppedOldYear: 2},
		TrainRecords: 6,
		TestRecords:  2,
		Best:         knn.DefaultOptions(),
		CVAccuracy:   0.71,
		TestAccuracy: 0.75,
		MarkerRecall: 0.8,
		OtherRecall:  0.7,
		RecallGap:    0.1,
		PValue:       0.42,
		Permutations: 100,
	}

	w := NewWriter(nil)
	require.NoError(t, w.WriteSummary(path, s))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	runID, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "run-123", runID)

	kLabel, err := f.GetCellValue(summarySheet, "A10")
	require.NoError(t, err)
	assert.Equal(t, "Best neighbors", kLabel)
	kValue, err := f.GetCellValue(summarySheet, "B10")
	require.NoError(t, err)
	assert.Equal(t, "13", kValue)
}
