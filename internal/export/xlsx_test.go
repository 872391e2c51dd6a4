package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestXLSXWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "balances.xlsx")
	w := NewXLSXWriter(path)

	if err := w.Write(context.Background(), BuildRows(testBalances())); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(balancesSheet)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 data rows, got %d", len(rows))
	}
	if rows[0][0] != "Address" || rows[0][7] != "Favorite" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "addr1" || rows[1][2] != "Waves" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
	if rows[1][3] != "5" {
		t.Errorf("native balance cell: expected 5, got %q", rows[1][3])
	}
	if rows[2][6] != "0.34" {
		t.Errorf("asset-x reserved cell: expected 0.34, got %q", rows[2][6])
	}
}

func TestXLSXWriterReplacesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.xlsx")
	w := NewXLSXWriter(path)

	if err := w.Write(context.Background(), BuildRows(testBalances())); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := w.Write(context.Background(), nil); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(balancesSheet)
	if err != nil {
		t.Fatalf("reading sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected only the header row after rewrite, got %d rows", len(rows))
	}
}
