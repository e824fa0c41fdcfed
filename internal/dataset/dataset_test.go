package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tabproc/internal/errors"
)

// buildDataset constructs a small typed dataset without going through
// the loader.
func buildDataset(t *testing.T) *Dataset {
	t.Helper()

	d, err := New([]string{"id", "name", "score"})
	require.NoError(t, err)
	d.Column("id").Type = TypeInt
	d.Column("name").Type = TypeString
	d.Column("score").Type = TypeFloat

	rows := [][]Value{
		{Int(1), String("ana"), Float(7.5)},
		{Int(2), String("bob"), Null()},
		{Int(3), Null(), Float(9.0)},
		{Int(2), String("bob"), Null()},
	}
	for _, row := range rows {
		require.NoError(t, d.AppendRow(row))
	}
	return d
}

func TestNew_DuplicateColumnNames(t *testing.T) {
	_, err := New([]string{"a", "b", "a"})
	assert.Error(t, err)
}

func TestDataset_Shape(t *testing.T) {
	d := buildDataset(t)

	assert.Equal(t, 4, d.Rows())
	assert.Equal(t, 3, d.Cols())
	assert.Equal(t, []string{"id", "name", "score"}, d.ColumnNames())
	assert.Equal(t, 3, d.NullCount())
	assert.Equal(t, 2, d.Column("score").NullCount())
}

func TestDataset_Select(t *testing.T) {
	d := buildDataset(t)

	require.NoError(t, d.Select([]string{"score", "id"}))
	assert.Equal(t, []string{"score", "id"}, d.ColumnNames())
	assert.Equal(t, 4, d.Rows())

	// Idempotent under re-selection of the same set.
	require.NoError(t, d.Select([]string{"score", "id"}))
	assert.Equal(t, []string{"score", "id"}, d.ColumnNames())
}

func TestDataset_Select_DuplicateNamesKeepFirstPosition(t *testing.T) {
	d := buildDataset(t)

	require.NoError(t, d.Select([]string{"name", "id", "name"}))
	assert.Equal(t, []string{"name", "id"}, d.ColumnNames())
	assert.Equal(t, 4, d.Rows())
}

func TestDataset_Select_MissingColumnsAllReported(t *testing.T) {
	d := buildDataset(t)

	err := d.Select([]string{"id", "age", "height"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeColumnNotFound, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "age")
	assert.Contains(t, err.Error(), "height")

	// Dataset unchanged on failure.
	assert.Equal(t, []string{"id", "name", "score"}, d.ColumnNames())
}

func TestDataset_Dedupe(t *testing.T) {
	d := buildDataset(t)

	removed := d.Dedupe(nil)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, d.Rows())

	// First occurrence kept, order preserved.
	v, ok := d.Value("id", 1)
	require.True(t, ok)
	assert.Equal(t, int64(2), v.AsInt())

	// Idempotent.
	assert.Equal(t, 0, d.Dedupe(nil))
	assert.Equal(t, 3, d.Rows())
}

func TestDataset_Dedupe_Subset(t *testing.T) {
	d := buildDataset(t)

	// On id alone rows 2 and 4 collide.
	removed := d.Dedupe([]string{"id"})
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, d.Rows())
}

func TestDataset_Dedupe_NullDistinctFromEmptyString(t *testing.T) {
	d, err := New([]string{"v"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Value{Null()}))
	require.NoError(t, d.AppendRow([]Value{String("")}))

	assert.Equal(t, 0, d.Dedupe(nil))
	assert.Equal(t, 2, d.Rows())
}

func TestDataset_Dedupe_SeparatorBytesInCells(t *testing.T) {
	// Cell content must never shift the boundary between key cells,
	// control bytes included.
	d, err := New([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Value{String("x\x1f"), String("y")}))
	require.NoError(t, d.AppendRow([]Value{String("x"), String("\x1fy")}))

	assert.Equal(t, 0, d.Dedupe(nil))
	assert.Equal(t, 2, d.Rows())
}

func TestDataset_Dedupe_NullDistinctFromControlBytes(t *testing.T) {
	d, err := New([]string{"v"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Value{Null()}))
	require.NoError(t, d.AppendRow([]Value{String("\x00n")}))

	assert.Equal(t, 0, d.Dedupe(nil))
	assert.Equal(t, 2, d.Rows())
}

func TestDataset_DropNullRows(t *testing.T) {
	d := buildDataset(t)

	removed := d.DropNullRows()
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, d.Rows())
	assert.Equal(t, 0, d.NullCount())
}

func TestDataset_FillNulls(t *testing.T) {
	d := buildDataset(t)

	filled := d.FillNulls(String("N/A"))
	assert.Equal(t, 3, filled)
	assert.Equal(t, 0, d.NullCount())

	// The literal is stored as-is even in the float column.
	v, ok := d.Value("score", 1)
	require.True(t, ok)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "N/A", v.String())
	// The column keeps its inferred type tag.
	assert.Equal(t, TypeFloat, d.Column("score").Type)
}

func TestDataset_SortBy(t *testing.T) {
	d, err := New([]string{"n"})
	require.NoError(t, err)
	d.Column("n").Type = TypeInt
	for _, v := range []Value{Int(10), Null(), Int(2), Int(9)} {
		require.NoError(t, d.AppendRow([]Value{v}))
	}

	require.NoError(t, d.SortBy("n", true))
	col := d.Column("n")
	assert.Equal(t, int64(2), col.Values[0].AsInt())
	assert.Equal(t, int64(9), col.Values[1].AsInt())
	assert.Equal(t, int64(10), col.Values[2].AsInt())
	// Null sorts after all non-null values.
	assert.True(t, col.Values[3].IsNull())

	require.NoError(t, d.SortBy("n", false))
	assert.Equal(t, int64(10), col.Values[0].AsInt())
	// Null stays last in descending order too.
	assert.True(t, col.Values[3].IsNull())
}

func TestDataset_SortBy_Stable(t *testing.T) {
	d, err := New([]string{"k", "tag"})
	require.NoError(t, err)
	d.Column("k").Type = TypeInt
	rows := [][]Value{
		{Int(2), String("first")},
		{Int(1), String("x")},
		{Int(2), String("second")},
	}
	for _, row := range rows {
		require.NoError(t, d.AppendRow(row))
	}

	require.NoError(t, d.SortBy("k", true))
	tag := d.Column("tag")
	assert.Equal(t, "x", tag.Values[0].AsString())
	assert.Equal(t, "first", tag.Values[1].AsString())
	assert.Equal(t, "second", tag.Values[2].AsString())
}

func TestDataset_SortBy_MissingColumn(t *testing.T) {
	d := buildDataset(t)

	err := d.SortBy("missing", true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeColumnNotFound, apperrors.TypeOf(err))
	// Row order untouched.
	v, _ := d.Value("id", 0)
	assert.Equal(t, int64(1), v.AsInt())
}
