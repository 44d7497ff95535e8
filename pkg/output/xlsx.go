package output

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	reportSheet  = "Report"
	mishapsSheet = "Mishaps"
	summarySheet = "Summary"
)

// XLSXFormatter writes the report card as a spreadsheet workbook.
type XLSXFormatter struct {
	opts FormatOptions
}

// NewXLSXFormatter creates a new spreadsheet formatter.
func NewXLSXFormatter(opts FormatOptions) *XLSXFormatter {
	return &XLSXFormatter{opts: opts}
}

// Name returns the format name.
func (f *XLSXFormatter) Name() string {
	return "xlsx"
}

// Format renders the report as an xlsx workbook with one sheet for items,
// one for mishaps, and one for the summary.
func (f *XLSXFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("naming report sheet: %w", err)
	}
	if _, err := book.NewSheet(mishapsSheet); err != nil {
		return fmt.Errorf("creating mishaps sheet: %w", err)
	}
	if _, err := book.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	if err := f.writeItems(book, report); err != nil {
		return err
	}
	if err := f.writeMishaps(book, report); err != nil {
		return err
	}
	if err := f.writeSummary(book, report); err != nil {
		return err
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (f *XLSXFormatter) writeItems(book *excelize.File, report *Report) error {
	rows := [][]interface{}{{"#", "Check", "Grade", "Explanation", "Mishaps", "Anomalies"}}
	for i, item := range report.Items {
		rows = append(rows, []interface{}{
			i + 1, string(item.Check), string(item.Grade), item.Explanation,
			len(item.Mishaps), len(item.Anomalies),
		})
	}
	return writeRows(book, reportSheet, rows)
}

func (f *XLSXFormatter) writeMishaps(book *excelize.File, report *Report) error {
	origin := report.Metadata.Window.Start
	rows := [][]interface{}{{"Item", "Check", "Start (s)", "End (s)", "Label"}}
	for i, item := range report.Items {
		for _, m := range item.Mishaps {
			rows = append(rows, []interface{}{
				i + 1, string(item.Check),
				float64(m.Start-origin) / 1000, float64(m.End-origin) / 1000,
				m.Label,
			})
		}
	}
	return writeRows(book, mishapsSheet, rows)
}

func (f *XLSXFormatter) writeSummary(book *excelize.File, report *Report) error {
	s := report.Summary
	rows := [][]interface{}{
		{"Overall", string(s.Overall)},
		{"Checks run", s.ChecksRun},
		{"Checks omitted", s.ChecksOmitted},
		{"Items", s.Items},
		{"Items below S", s.ItemsWithIssues},
		{"Mishaps", s.Mishaps},
		{"Encounter (s)", float64(report.Metadata.Window.Duration()) / 1000},
		{"Run ID", report.Metadata.RunID},
	}
	if report.Metadata.EncounterFile != "" {
		rows = append(rows, []interface{}{"Encounter file", report.Metadata.EncounterFile})
	}
	return writeRows(book, summarySheet, rows)
}

func writeRows(book *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
