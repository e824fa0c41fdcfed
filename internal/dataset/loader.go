package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	apperrors "tabproc/internal/errors"
)

// LoadOptions configures delimited-text parsing.
type LoadOptions struct {
	Delimiter rune   // field delimiter, ',' when zero
	Encoding  string // text encoding name, utf-8 when empty
}

// encodingAliases maps common spellings onto IANA charset names.
var encodingAliases = map[string]string{
	"latin-1":  "iso-8859-1",
	"latin1":   "iso-8859-1",
	"utf8":     "utf-8",
	"utf-8":    "utf-8",
	"utf8-sig": "utf-8",
}

// Load parses the delimited file at path into a Dataset. The header
// row is required and its values become column names verbatim. Empty
// fields are null. After parsing, every column's type is inferred by
// the strictest-common-type rule and the original row count is
// recorded.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("cannot open input file %s", path), err)
	}
	defer f.Close()

	reader, err := decodingReader(f, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	cr := csv.NewReader(reader)
	cr.Comma = delimiter
	// FieldsPerRecord is set from the header, so short or long data
	// rows fail as malformed input.

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperrors.NewLoadError(fmt.Sprintf("input file %s is empty, header row required", path), nil)
	}
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to parse header of %s", path), err)
	}

	raw := make([][]string, len(header))
	null := make([][]bool, len(header))
	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewLoadError(fmt.Sprintf("failed to parse %s", path), err).
				WithContext("row", rows+1)
		}
		for i, field := range record {
			raw[i] = append(raw[i], field)
			null[i] = append(null[i], field == "")
		}
		rows++
	}

	d, err := New(header)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("invalid header in %s", path), err)
	}

	for i, col := range d.columns {
		col.Type = inferColumnType(raw[i], null[i])
		col.Values = make([]Value, rows)
		for j := 0; j < rows; j++ {
			if null[i][j] {
				col.Values[j] = Null()
			} else {
				col.Values[j] = parseValue(raw[i][j], col.Type)
			}
		}
	}
	d.originalRows = rows

	slog.Debug("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("columns", len(header)))

	return d, nil
}

// decodingReader wraps r so that the named text encoding decodes to
// UTF-8. For UTF-8 input the stream is validated rather than
// transformed, so an encoding mismatch still fails the load.
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = "utf-8"
	}
	if alias, ok := encodingAliases[normalized]; ok {
		normalized = alias
	}

	if normalized == "utf-8" {
		// Tolerate a UTF-8 BOM; spreadsheet tools commonly emit one.
		br := bufio.NewReader(r)
		if lead, err := br.Peek(3); err == nil && bytes.Equal(lead, []byte{0xEF, 0xBB, 0xBF}) {
			br.Discard(3)
		}
		return transform.NewReader(br, encoding.UTF8Validator), nil
	}

	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil || enc == nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("unknown text encoding %q", name), err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
