// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes resolution results: the xlsx spreadsheet, the YAML
// audit trail, the SQLite run store and the terminal summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// SheetName is the worksheet holding the report rows.
const SheetName = "Faculty Data"

const maxColumnWidth = 50

// FileName returns "<University_Name>_<YYYYMMDD_HHMM>.xlsx".
func FileName(university string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", fileStem(university), at.Format("20060102_1504"))
}

func fileStem(university string) string {
	stem := strings.Join(strings.Fields(university), "_")
	stem = strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(stem)
	if stem == "" {
		return "Faculty"
	}
	return stem
}

// WriteXLSX writes rows to path under a bold header in ReportColumns order.
// Each column is as wide as its longest cell plus two, capped at 50.
func WriteXLSX(path string, rows []types.OutputRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	widths := make([]int, len(types.ReportColumns))
	header := make([]any, len(types.ReportColumns))
	for i, col := range types.ReportColumns {
		header[i] = col
		widths[i] = utf8.RuneCountInString(col)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for r, row := range rows {
		values := row.Values()
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", r+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(types.ReportColumns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(min(w+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
