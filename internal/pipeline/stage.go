// Package pipeline orchestrates the fixed transformation sequence over
// one Dataset: load, select columns, filter rows, remove duplicates,
// handle missing values, sort, then save. Each stage either succeeds,
// logging a short summary, or fails with a typed error that aborts the
// remaining stages.
package pipeline

import (
	"context"
	"log/slog"

	"tabproc/internal/dataset"
)

// State is the mutable state threaded through a run's stages.
type State struct {
	Dataset *dataset.Dataset
	Logger  *slog.Logger
	RunID   string
}

// Step is a single named transformation applied to the Dataset. A
// failing Execute must leave the Dataset unmodified.
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Execute runs the Step against the run state
	Execute(ctx context.Context, state *State) error
}
