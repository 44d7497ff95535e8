package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestXLSXFormatter_Format(t *testing.T) {
	f := NewXLSXFormatter(FormatOptions{})
	if f.Name() != "xlsx" {
		t.Errorf("Name() = %q, want xlsx", f.Name())
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	book, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer book.Close()

	rows, err := book.GetRows(reportSheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", reportSheet, err)
	}
	if len(rows) != 4 {
		t.Fatalf("report rows = %d, want 4 (header + 3 items)", len(rows))
	}
	if rows[1][1] != "auto_chains" || rows[1][2] != "A" {
		t.Errorf("first item row = %v", rows[1])
	}
	if rows[3][3] != "Misaligned 1/2 Primordial Stance" {
		t.Errorf("explanation = %q", rows[3][3])
	}

	mishaps, err := book.GetRows(mishapsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", mishapsSheet, err)
	}
	if len(mishaps) != 4 {
		t.Fatalf("mishap rows = %d, want 4", len(mishaps))
	}
	if mishaps[3][2] != "4" || mishaps[3][3] != "8" || mishaps[3][4] != "45%" {
		t.Errorf("alignment mishap row = %v", mishaps[3])
	}

	overall, err := book.GetCellValue(summarySheet, "B1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if overall != "A" {
		t.Errorf("overall cell = %q, want A", overall)
	}
}
