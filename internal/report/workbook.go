package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteSummary writes the run summary workbook to filePath.
func (w *Writer) WriteSummary(filePath string, s Summary) error {
	w.logger.Info("writing summary workbook",
		"file_path", filePath,
		"run_id", s.RunID,
	)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), summarySheet)

	entries := []struct {
		key   string
		value interface{}
	}{
		{"Run ID", s.RunID},
		{"Generated at", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Raw records", s.Stats.Raw},
		{"Cleaned records", s.Stats.Kept},
		{"Dropped (old year)", s.Stats.DroppedOldYear},
		{"Dropped (no roster match)", s.Stats.DroppedNoRoster},
		{"Dropped (bad party)", s.Stats.DroppedBadParty},
		{"Training records", s.TrainRecords},
		{"Test records", s.TestRecords},
		{"Best neighbors", s.Best.K},
		{"Best weights", string(s.Best.Weights)},
		{"Best Minkowski power", s.Best.Power},
		{"Best algorithm", string(s.Best.Algorithm)},
		{"Best leaf size", s.Best.LeafSize},
		{"CV accuracy", s.CVAccuracy},
		{"Test accuracy", s.TestAccuracy},
		{"Majority baseline accuracy", s.BaselineAccuracy},
		{"Honorific-group recall", s.MarkerRecall},
		{"Other-group recall", s.OtherRecall},
		{"Recall gap", s.RecallGap},
		{"Permutation p-value", s.PValue},
		{"Permutations", s.Permutations},
	}

	for i, e := range entries {
		row := i + 1
		keyCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(summarySheet, keyCell, e.key); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", keyCell, err)
		}
		if err := f.SetCellValue(summarySheet, valueCell, e.value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", valueCell, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
