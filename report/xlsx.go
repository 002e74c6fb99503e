package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/brunobiangulo/dmforge"
)

const sheetName = "Modules"

// writeXLSX writes the module manifest as a single-sheet spreadsheet.
func writeXLSX(path string, res *dmforge.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(manifestHeader))
	for i, h := range manifestHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", bold); err != nil {
		return fmt.Errorf("styling header row: %w", err)
	}

	for i, doc := range res.Documents {
		m := doc.Manifest
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locating row %d: %w", m.Sequence, err)
		}
		row := []interface{}{m.Sequence, m.Filename, m.Title, m.DomainCode, m.PageRange, m.ContentType}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", m.Sequence, err)
		}
	}

	// Widen the filename and title columns so the sheet opens readable.
	if err := f.SetColWidth(sheetName, "B", "C", 45); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "D", "F", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", filepath.Base(path), err)
	}
	return nil
}
