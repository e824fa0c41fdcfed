package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewAppError(ErrTypeFilter, "invalid expression", nil),
			expected: "[FILTER] invalid expression",
		},
		{
			name:     "with cause",
			err:      NewAppError(ErrTypeLoad, "cannot open input", os.ErrNotExist),
			expected: "[LOAD] cannot open input: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewWriteError("failed to save output", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestNewColumnNotFoundError_ListsAllColumns(t *testing.T) {
	err := NewColumnNotFoundError([]string{"age", "salary"})

	assert.Contains(t, err.Error(), "age")
	assert.Contains(t, err.Error(), "salary")
	assert.Equal(t, []string{"age", "salary"}, err.Context["missing_columns"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"load error", NewLoadError("bad file", nil), ErrTypeLoad},
		{"wrapped app error", fmt.Errorf("stage failed: %w", NewFilterError("bad expr", nil)), ErrTypeFilter},
		{"plain error", errors.New("boom"), ErrorType("")},
		{"unsupported format", NewUnsupportedFormatError("tsv"), ErrTypeUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
		})
	}
}

func TestWithContext(t *testing.T) {
	err := NewLoadError("parse failed", nil).
		WithContext("path", "data.csv").
		WithContext("line", 7)

	require.NotNil(t, err.Context)
	assert.Equal(t, "data.csv", err.Context["path"])
	assert.Equal(t, 7, err.Context["line"])
}
