package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tabproc/internal/dataset"
)

// sheetName is the single sheet written to spreadsheet output.
const sheetName = "Sheet1"

// writeXLSX writes the Dataset as a single-sheet spreadsheet with a
// header row. Cells keep their scalar types: numeric columns become
// numeric cells, booleans boolean cells, nulls empty cells.
func writeXLSX(w io.Writer, d *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, d.Cols())
	for i, name := range d.ColumnNames() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := make([]interface{}, d.Cols())
	for i := 0; i < d.Rows(); i++ {
		for j, v := range d.Row(i) {
			row[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue converts a cell to the concrete type excelize stores.
func cellValue(v dataset.Value) interface{} {
	switch v.Kind() {
	case dataset.KindNull:
		return nil
	case dataset.KindInt:
		return v.AsInt()
	case dataset.KindFloat:
		return v.AsFloat()
	case dataset.KindBool:
		return v.AsBool()
	case dataset.KindTime:
		return v.String()
	default:
		return v.AsString()
	}
}
