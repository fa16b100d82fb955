package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tbrink/jif/internal/pipeline"
)

const resultsSheet = "Results"

// Column widths for the xlsx flavor. File paths and journal names need
// room; the rest are short codes.
var columnWidths = map[string]float64{
	"A": 40, // file
	"B": 30, // journal
	"C": 30, // matched_journal
	"D": 12, // impact_factor
	"E": 10, // edition
	"F": 10, // match_type
	"G": 8,  // score
	"H": 14, // rule
	"I": 16, // status
	"J": 40, // detail
}

func writeXLSX(path string, results []pipeline.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range results {
		cells := row(r)
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		// Keep the impact factor numeric so spreadsheets can sort it.
		if r.ImpactFactor != nil {
			values[3] = *r.ImpactFactor
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(resultsSheet, col, col, width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
