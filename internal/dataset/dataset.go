// Package dataset implements the in-memory table the pipeline operates
// on: named, typed columns of nullable cell values. A Dataset is owned
// by exactly one pipeline run and is mutated in place, stage by stage.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tabproc/internal/errors"
)

// ColumnType is the inferred scalar type of a column, decided once at
// load time by the strictest-common-type rule.
type ColumnType string

const (
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
	TypeDate   ColumnType = "date"
	TypeString ColumnType = "string"
)

// Column holds one named column: its inferred type and one value per
// row.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// NullCount returns the number of null cells in the column.
func (c *Column) NullCount() int {
	count := 0
	for _, v := range c.Values {
		if v.IsNull() {
			count++
		}
	}
	return count
}

// Dataset is an ordered collection of equally sized columns with unique
// names.
type Dataset struct {
	columns      []*Column
	byName       map[string]int
	originalRows int
}

// New creates an empty Dataset with the given column names, in order.
// Fails when a name appears twice.
func New(names []string) (*Dataset, error) {
	d := &Dataset{byName: make(map[string]int, len(names))}
	for _, name := range names {
		if _, exists := d.byName[name]; exists {
			return nil, fmt.Errorf("duplicate column name: %q", name)
		}
		d.byName[name] = len(d.columns)
		d.columns = append(d.columns, &Column{Name: name, Type: TypeString})
	}
	return d, nil
}

// Rows returns the current row count.
func (d *Dataset) Rows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// Cols returns the current column count.
func (d *Dataset) Cols() int {
	return len(d.columns)
}

// OriginalRows returns the row count recorded immediately after load.
func (d *Dataset) OriginalRows() int {
	return d.originalRows
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// Column returns the named column, or nil when absent.
func (d *Dataset) Column(name string) *Column {
	if i, ok := d.byName[name]; ok {
		return d.columns[i]
	}
	return nil
}

// Value returns the cell at the named column and row.
func (d *Dataset) Value(name string, row int) (Value, bool) {
	col := d.Column(name)
	if col == nil || row < 0 || row >= len(col.Values) {
		return Null(), false
	}
	return col.Values[row], true
}

// Row returns the values of one row in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// AppendRow appends one row; the value count must match the column
// count.
func (d *Dataset) AppendRow(values []Value) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("row has %d values, dataset has %d columns", len(values), len(d.columns))
	}
	for i, c := range d.columns {
		c.Values = append(c.Values, values[i])
	}
	return nil
}

// MissingColumns returns, in request order, every name absent from the
// Dataset.
func (d *Dataset) MissingColumns(names []string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := d.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Select reduces the Dataset to exactly the requested columns, in the
// requested order. A name requested more than once keeps its first
// position only, since column names are unique within a Dataset. Every
// missing name is reported at once and the Dataset is left unmodified
// on failure.
func (d *Dataset) Select(names []string) error {
	if missing := d.MissingColumns(names); len(missing) > 0 {
		return errors.NewColumnNotFoundError(missing)
	}

	selected := make([]*Column, 0, len(names))
	byName := make(map[string]int, len(names))
	for _, name := range names {
		if _, dup := byName[name]; dup {
			continue
		}
		byName[name] = len(selected)
		selected = append(selected, d.columns[d.byName[name]])
	}
	d.columns = selected
	d.byName = byName
	return nil
}

// Dedupe removes rows that duplicate an earlier row when compared on
// the subset columns (all columns when subset is empty). The first
// occurrence survives and row order is preserved. Subset names absent
// from the Dataset are ignored.
func (d *Dataset) Dedupe(subset []string) int {
	keyCols := make([]*Column, 0, len(subset))
	for _, name := range subset {
		if col := d.Column(name); col != nil {
			keyCols = append(keyCols, col)
		}
	}
	if len(keyCols) == 0 {
		keyCols = d.columns
	}

	seen := make(map[string]struct{}, d.Rows())
	keep := make([]int, 0, d.Rows())
	var sb strings.Builder
	for i := 0; i < d.Rows(); i++ {
		sb.Reset()
		for _, col := range keyCols {
			v := col.Values[i]
			s := v.String()
			// Kind tag plus length prefix keeps cell boundaries
			// unambiguous whatever bytes a cell contains, and keeps
			// null distinct from the empty string.
			sb.WriteByte('0' + byte(v.Kind()))
			sb.WriteString(strconv.Itoa(len(s)))
			sb.WriteByte(':')
			sb.WriteString(s)
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	removed := d.Rows() - len(keep)
	if removed > 0 {
		d.KeepRows(keep)
	}
	return removed
}

// DropNullRows removes every row containing at least one null cell and
// returns the number removed.
func (d *Dataset) DropNullRows() int {
	keep := make([]int, 0, d.Rows())
	for i := 0; i < d.Rows(); i++ {
		hasNull := false
		for _, c := range d.columns {
			if c.Values[i].IsNull() {
				hasNull = true
				break
			}
		}
		if !hasNull {
			keep = append(keep, i)
		}
	}
	removed := d.Rows() - len(keep)
	if removed > 0 {
		d.KeepRows(keep)
	}
	return removed
}

// FillNulls replaces every null cell with the replacement value and
// returns the number of cells filled. The replacement is stored as-is
// in every column regardless of the column type.
func (d *Dataset) FillNulls(replacement Value) int {
	filled := 0
	for _, c := range d.columns {
		for i, v := range c.Values {
			if v.IsNull() {
				c.Values[i] = replacement
				filled++
			}
		}
	}
	return filled
}

// NullCount returns the number of null cells across all columns.
func (d *Dataset) NullCount() int {
	count := 0
	for _, c := range d.columns {
		count += c.NullCount()
	}
	return count
}

// SortBy reorders rows by the named column. The sort is stable, uses
// the column's inferred type for comparison, and places null values
// after all non-null values regardless of direction. Fails without
// modifying the Dataset when the column is absent.
func (d *Dataset) SortBy(name string, ascending bool) error {
	col := d.Column(name)
	if col == nil {
		return errors.NewColumnNotFoundError([]string{name})
	}

	order := make([]int, d.Rows())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := col.Values[order[a]], col.Values[order[b]]
		// Nulls sort after all non-null values in both directions.
		if va.IsNull() || vb.IsNull() {
			return !va.IsNull() && vb.IsNull()
		}
		if ascending {
			return Compare(va, vb) < 0
		}
		return Compare(va, vb) > 0
	})
	d.KeepRows(order)
	return nil
}

// KeepRows rewrites every column to hold, in order, the rows named by
// the index list.
func (d *Dataset) KeepRows(indexes []int) {
	for _, c := range d.columns {
		values := make([]Value, len(indexes))
		for i, idx := range indexes {
			values[i] = c.Values[idx]
		}
		c.Values = values
	}
}
