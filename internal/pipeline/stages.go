package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"tabproc/internal/dataset"
	apperrors "tabproc/internal/errors"
	"tabproc/internal/filter"
)

// selectStep reduces the Dataset to the requested columns in order.
type selectStep struct {
	columns []string
}

func (s *selectStep) ID() string   { return "select_columns" }
func (s *selectStep) Name() string { return "Select Columns" }

func (s *selectStep) Execute(ctx context.Context, state *State) error {
	if err := state.Dataset.Select(s.columns); err != nil {
		return err
	}
	state.Logger.InfoContext(ctx, "selected columns",
		slog.Any("columns", s.columns))
	return nil
}

// filterStep retains rows matching a boolean expression.
type filterStep struct {
	expression string
}

func (s *filterStep) ID() string   { return "filter_rows" }
func (s *filterStep) Name() string { return "Filter Rows" }

func (s *filterStep) Execute(ctx context.Context, state *State) error {
	expr, err := filter.Parse(s.expression)
	if err != nil {
		return apperrors.NewFilterError(fmt.Sprintf("invalid filter expression %q", s.expression), err)
	}

	d := state.Dataset
	if unknown := d.MissingColumns(expr.Columns()); len(unknown) > 0 {
		return apperrors.NewFilterError(
			fmt.Sprintf("filter references unknown columns: %v", unknown), nil).
			WithContext("unknown_columns", unknown)
	}

	initial := d.Rows()
	row := func(i int) filter.Row {
		return func(column string) dataset.Value {
			v, _ := d.Value(column, i)
			return v
		}
	}

	keep := make([]int, 0, initial)
	for i := 0; i < initial; i++ {
		if expr.Matches(row(i)) {
			keep = append(keep, i)
		}
	}
	d.KeepRows(keep)

	state.Logger.InfoContext(ctx, "filtered rows",
		slog.String("expression", s.expression),
		slog.Int("removed", initial-d.Rows()),
		slog.Int("remaining", d.Rows()))
	return nil
}

// dedupeStep removes rows duplicating an earlier row on the subset
// columns.
type dedupeStep struct {
	subset []string
}

func (s *dedupeStep) ID() string   { return "remove_duplicates" }
func (s *dedupeStep) Name() string { return "Remove Duplicates" }

func (s *dedupeStep) Execute(ctx context.Context, state *State) error {
	removed := state.Dataset.Dedupe(s.subset)
	if removed > 0 {
		state.Logger.InfoContext(ctx, "removed duplicate rows",
			slog.Int("removed", removed))
	}
	return nil
}

// fillStep handles missing values in drop or fill mode.
type fillStep struct {
	mode  string
	value string
}

func (s *fillStep) ID() string   { return "fill_missing" }
func (s *fillStep) Name() string { return "Handle Missing Values" }

func (s *fillStep) Execute(ctx context.Context, state *State) error {
	d := state.Dataset
	nulls := d.NullCount()
	if nulls == 0 {
		state.Logger.InfoContext(ctx, "no missing values")
		return nil
	}

	state.Logger.InfoContext(ctx, "found missing values", slog.Int("count", nulls))

	switch s.mode {
	case "drop":
		removed := d.DropNullRows()
		state.Logger.InfoContext(ctx, "dropped rows with missing values",
			slog.Int("removed", removed))
	case "fill":
		// The replacement literal is stored verbatim in every column,
		// matching the tool's historical behavior even when the column
		// is numeric.
		filled := d.FillNulls(dataset.String(s.value))
		state.Logger.InfoContext(ctx, "filled missing values",
			slog.String("value", s.value),
			slog.Int("filled", filled))
	}
	return nil
}

// sortStep reorders rows by one column.
type sortStep struct {
	column    string
	ascending bool
}

func (s *sortStep) ID() string   { return "sort_rows" }
func (s *sortStep) Name() string { return "Sort Rows" }

func (s *sortStep) Execute(ctx context.Context, state *State) error {
	if err := state.Dataset.SortBy(s.column, s.ascending); err != nil {
		return err
	}
	direction := "ascending"
	if !s.ascending {
		direction = "descending"
	}
	state.Logger.InfoContext(ctx, "sorted rows",
		slog.String("column", s.column),
		slog.String("direction", direction))
	return nil
}
