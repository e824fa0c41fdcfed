package pipeline

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "tabproc/internal/errors"
)

// Options carries everything the argument-parsing layer supplies for
// one run. Presence of an optional field enables the corresponding
// stage; stage order itself is fixed.
type Options struct {
	InputPath  string `validate:"required"`
	OutputPath string `validate:"required_unless=InfoOnly true"`
	Format     string // explicit output format, inferred from OutputPath when empty

	Columns        string // comma-separated selection, stage skipped when empty
	Filter         string // row filter expression, stage skipped when empty
	Dedupe         bool
	DedupeColumns  string // optional dedupe subset, all columns when empty
	MissingMode    string `validate:"omitempty,oneof=drop fill"`
	FillValue      string // replacement literal for fill mode
	SortColumn     string // sort stage skipped when empty
	SortDescending bool

	Delimiter rune   // input field delimiter, ',' when zero
	Encoding  string // input text encoding, utf-8 when empty

	InfoOnly bool
}

var validate = validator.New()

// Validate checks the option set before a run starts.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return apperrors.NewValidationError("invalid pipeline options", err)
	}
	return nil
}

// splitColumns turns a comma-separated, order-significant column list
// into trimmed names. Empty entries are dropped.
func splitColumns(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
