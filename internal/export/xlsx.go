package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter implements ReportWriter by writing a workbook to a local file.
// Each run replaces the previous file.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter that saves the report at path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders the rows into a single-sheet workbook and saves it.
func (w *XLSXWriter) Write(ctx context.Context, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", balancesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	for i, row := range buildBalanceValues(rows) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("locating row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(balancesSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}
