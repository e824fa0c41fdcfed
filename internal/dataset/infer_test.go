package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		null     []bool
		expected ColumnType
	}{
		{
			name:     "all integers",
			raw:      []string{"1", "-2", "300"},
			null:     []bool{false, false, false},
			expected: TypeInt,
		},
		{
			name:     "integers with nulls stay int",
			raw:      []string{"1", "", "3"},
			null:     []bool{false, true, false},
			expected: TypeInt,
		},
		{
			name:     "mixed int and float becomes float",
			raw:      []string{"1", "2.5"},
			null:     []bool{false, false},
			expected: TypeFloat,
		},
		{
			name:     "booleans",
			raw:      []string{"true", "False", "TRUE"},
			null:     []bool{false, false, false},
			expected: TypeBool,
		},
		{
			name:     "dates",
			raw:      []string{"2024-01-02", "2023/12/31"},
			null:     []bool{false, false},
			expected: TypeDate,
		},
		{
			name:     "single non-conforming value demotes to string",
			raw:      []string{"1", "2", "x"},
			null:     []bool{false, false, false},
			expected: TypeString,
		},
		{
			name:     "float with one word demotes to string",
			raw:      []string{"1.5", "n/a"},
			null:     []bool{false, false},
			expected: TypeString,
		},
		{
			name:     "all null column is string",
			raw:      []string{"", ""},
			null:     []bool{true, true},
			expected: TypeString,
		},
		{
			name:     "scientific notation is float",
			raw:      []string{"1e3", "2.5"},
			null:     []bool{false, false},
			expected: TypeFloat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferColumnType(tt.raw, tt.null))
		})
	}
}

func TestParseValue(t *testing.T) {
	v := parseValue("42", TypeInt)
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, int64(42), v.AsInt())

	v = parseValue("2.75", TypeFloat)
	assert.Equal(t, KindFloat, v.Kind())
	assert.Equal(t, 2.75, v.AsFloat())

	v = parseValue("TRUE", TypeBool)
	assert.Equal(t, KindBool, v.Kind())
	assert.True(t, v.AsBool())

	v = parseValue("2024-03-15", TypeDate)
	assert.Equal(t, KindTime, v.Kind())
	assert.Equal(t, "2024-03-15", v.String())

	v = parseValue("plain", TypeString)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "plain", v.AsString())
}
