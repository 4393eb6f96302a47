package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// csvDateLayout is the date format used in the exported tables.
const csvDateLayout = "2006-01-02"

// Writer exports run artifacts beneath the reports directory.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a report writer
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// predictionHeaders is the column order of the predictions CSV.
var predictionHeaders = []string{
	"representative",
	"ticker",
	"transaction_date",
	"amount",
	"type",
	"party",
	"predicted_party",
	"has_honorific",
}

// WritePredictions writes the annotated prediction table to filePath.
func (w *Writer) WritePredictions(filePath string, rows []Row) error {
	w.logger.Info("writing predictions CSV",
		"file_path", filePath,
		"record_count", len(rows),
	)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(predictionHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rows {
		date := ""
		if !row.TransactionDate.IsZero() {
			date = row.TransactionDate.Format(csvDateLayout)
		}
		record := []string{
			row.Representative,
			row.Ticker,
			date,
			row.Amount,
			row.Type,
			row.Party,
			row.PredictedParty,
			strconv.FormatBool(row.HasHonorific),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
