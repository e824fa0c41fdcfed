package exporter

import (
	"encoding/csv"
	"io"

	"tabproc/internal/dataset"
)

// writeCSV writes the Dataset as delimited text: a header row followed
// by one row per record, cells in their canonical text form, nulls as
// empty fields.
func writeCSV(w io.Writer, d *dataset.Dataset, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(d.ColumnNames()); err != nil {
		return err
	}

	record := make([]string, d.Cols())
	for i := 0; i < d.Rows(); i++ {
		for j, v := range d.Row(i) {
			record[j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
