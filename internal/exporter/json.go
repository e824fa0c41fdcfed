package exporter

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"tabproc/internal/dataset"
)

// writeJSON writes the Dataset as a top-level array with one object
// per row, 2-space indentation, keys in column order, and null for
// missing cells. The objects are emitted by hand because encoding/json
// does not preserve map key order.
func writeJSON(w io.Writer, d *dataset.Dataset) error {
	bw := bufio.NewWriter(w)

	names := d.ColumnNames()
	keys := make([][]byte, len(names))
	for i, name := range names {
		encoded, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = encoded
	}

	bw.WriteString("[")
	for i := 0; i < d.Rows(); i++ {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {\n")
		for j, v := range d.Row(i) {
			bw.WriteString("    ")
			bw.Write(keys[j])
			bw.WriteString(": ")
			encoded, err := jsonValue(v)
			if err != nil {
				return err
			}
			bw.WriteString(encoded)
			if j < len(names)-1 {
				bw.WriteString(",")
			}
			bw.WriteString("\n")
		}
		bw.WriteString("  }")
	}
	if d.Rows() > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]")

	return bw.Flush()
}

// jsonValue encodes one cell per its own kind: numbers as JSON
// numbers, booleans as booleans, dates as their canonical text form,
// null as null.
func jsonValue(v dataset.Value) (string, error) {
	switch v.Kind() {
	case dataset.KindNull:
		return "null", nil
	case dataset.KindInt:
		return strconv.FormatInt(v.AsInt(), 10), nil
	case dataset.KindFloat:
		// JSON has no NaN or infinity tokens; non-finite cells become
		// null, the same way pandas serializes them.
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "null", nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case dataset.KindBool:
		return strconv.FormatBool(v.AsBool()), nil
	default:
		encoded, err := json.Marshal(v.String())
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
