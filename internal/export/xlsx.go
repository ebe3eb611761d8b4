package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"stockdesk/internal/table"
)

const defaultSheet = "Report"

// WriteXLSX writes v as a single-sheet workbook with a bold header row.
func WriteXLSX(out io.Writer, sheet string, v table.View) error {
	if sheet == "" {
		sheet = defaultSheet
	}
	sheet = sheetName(sheet)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := headerRow(v.Columns)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(header) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
		lastCol, err := excelize.ColumnNumberToName(len(header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
			return err
		}
	}

	for i, r := range v.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(out)
}

// sheetName trims a title to Excel's 31-character sheet name limit and drops
// characters Excel rejects.
func sheetName(title string) string {
	var b []rune
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		b = append(b, r)
		if len(b) == 31 {
			break
		}
	}
	if len(b) == 0 {
		return defaultSheet
	}
	return string(b)
}
