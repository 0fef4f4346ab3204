package excel

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contract-planner/internal/report"
)

const defaultSheet = "Sheet1"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes one worksheet per sheet, in order, and returns the xlsx bytes.
func (g *Generator) Generate(sheets []report.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := file.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := file.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}
		if err := g.writeRows(file, sheet); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeRows(file *excelize.File, sheet report.Sheet) error {
	widest := 0
	for i, row := range sheet.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := file.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet.Name, i+1, err)
		}
		if len(row) > widest {
			widest = len(row)
		}
	}

	if widest > 0 {
		last, err := excelize.ColumnNumberToName(widest)
		if err != nil {
			return err
		}
		_ = file.SetColWidth(sheet.Name, "A", "A", 32)
		if widest > 1 {
			_ = file.SetColWidth(sheet.Name, "B", last, 18)
		}
	}
	return nil
}
