package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"tabproc/internal/dataset"
	"tabproc/internal/exporter"
	"tabproc/internal/infrastructure"
)

// Summary reports an end-of-run accounting to the caller.
type Summary struct {
	OriginalRows int
	FinalRows    int
	RowsRemoved  int
	FinalColumns int
	OutputPath   string
	FileSize     int64
	InfoOnly     bool
}

// Driver runs the fixed transformation sequence for one Options set.
type Driver struct {
	opts   Options
	logger *slog.Logger
	tracer *Tracer
	out    io.Writer
}

// Option customizes a Driver.
type Option func(*Driver)

// WithOutput redirects the info and summary reports, which go to
// stdout by default.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// NewDriver validates the options and builds a Driver.
func NewDriver(opts Options, logger *slog.Logger, driverOpts ...Option) (*Driver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{
		opts:   opts,
		logger: logger,
		tracer: NewTracer(),
		out:    os.Stdout,
	}
	for _, o := range driverOpts {
		o(d)
	}
	return d, nil
}

// Run executes the pipeline: load, the enabled transformation stages in
// their fixed order, then save. The first stage failure aborts the
// remainder. Info-only runs report the Dataset's shape after load and
// perform no transformation and no save.
func (drv *Driver) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)

	ctx, runSpan := drv.tracer.TraceRun(ctx, runID, drv.opts.InputPath)
	defer runSpan.End()

	summary, err := drv.run(ctx, runID)
	RecordRunCompletion(runSpan, summary, err)
	return summary, err
}

func (drv *Driver) run(ctx context.Context, runID string) (*Summary, error) {
	logger := drv.logger

	logger.InfoContext(ctx, "loading input",
		slog.String("path", drv.opts.InputPath))

	d, err := dataset.Load(drv.opts.InputPath, dataset.LoadOptions{
		Delimiter: drv.opts.Delimiter,
		Encoding:  drv.opts.Encoding,
	})
	if err != nil {
		logger.ErrorContext(ctx, "load failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.InfoContext(ctx, "loaded input",
		slog.Int("rows", d.Rows()),
		slog.Int("columns", d.Cols()))

	if drv.opts.InfoOnly {
		drv.printInfo(d)
		return &Summary{
			OriginalRows: d.OriginalRows(),
			FinalRows:    d.Rows(),
			FinalColumns: d.Cols(),
			InfoOnly:     true,
		}, nil
	}

	state := &State{Dataset: d, Logger: logger, RunID: runID}

	// Stage order is fixed; options only switch stages on and off.
	for _, step := range drv.steps() {
		stageCtx, span := drv.tracer.TraceStage(ctx, runID, step.ID())
		err := step.Execute(stageCtx, state)
		RecordStageCompletion(span, state.Dataset.Rows(), err)
		span.End()
		if err != nil {
			logger.ErrorContext(ctx, "stage failed",
				slog.String("stage", step.Name()),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("stage %s failed: %w", step.Name(), err)
		}
	}

	format, err := exporter.ResolveFormat(drv.opts.OutputPath, drv.opts.Format)
	if err != nil {
		logger.ErrorContext(ctx, "save failed", slog.String("error", err.Error()))
		return nil, err
	}

	size, err := exporter.Save(d, drv.opts.OutputPath, exporter.SaveOptions{
		Format:    format,
		Delimiter: drv.opts.Delimiter,
	})
	if err != nil {
		logger.ErrorContext(ctx, "save failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.InfoContext(ctx, "saved output",
		slog.String("path", drv.opts.OutputPath),
		slog.String("format", string(format)),
		slog.Int64("size_bytes", size))

	summary := &Summary{
		OriginalRows: d.OriginalRows(),
		FinalRows:    d.Rows(),
		RowsRemoved:  d.OriginalRows() - d.Rows(),
		FinalColumns: d.Cols(),
		OutputPath:   drv.opts.OutputPath,
		FileSize:     size,
	}
	drv.printSummary(summary)
	return summary, nil
}

// steps assembles the enabled stages in their fixed order.
func (drv *Driver) steps() []Step {
	var steps []Step
	if drv.opts.Columns != "" {
		steps = append(steps, &selectStep{columns: splitColumns(drv.opts.Columns)})
	}
	if drv.opts.Filter != "" {
		steps = append(steps, &filterStep{expression: drv.opts.Filter})
	}
	if drv.opts.Dedupe {
		steps = append(steps, &dedupeStep{subset: splitColumns(drv.opts.DedupeColumns)})
	}
	if drv.opts.MissingMode != "" {
		steps = append(steps, &fillStep{mode: drv.opts.MissingMode, value: drv.opts.FillValue})
	}
	if drv.opts.SortColumn != "" {
		steps = append(steps, &sortStep{column: drv.opts.SortColumn, ascending: !drv.opts.SortDescending})
	}
	return steps
}

const reportRule = "============================================================"

// printInfo writes the info-only report: shape, then one descriptor
// per column with its inferred type and null count.
func (drv *Driver) printInfo(d *dataset.Dataset) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", reportRule)
	fmt.Fprintf(&b, "Dataset Information\n")
	fmt.Fprintf(&b, "%s\n", reportRule)
	fmt.Fprintf(&b, "Rows: %d\n", d.Rows())
	fmt.Fprintf(&b, "Columns: %d\n", d.Cols())
	fmt.Fprintf(&b, "\nColumn Names:\n")
	for i, col := range d.Columns() {
		fmt.Fprintf(&b, "  %d. %s (%s) - %d nulls\n", i+1, col.Name, col.Type, col.NullCount())
	}
	fmt.Fprintf(&b, "%s\n\n", reportRule)
	io.WriteString(drv.out, b.String())
}

// printSummary writes the end-of-run processing summary.
func (drv *Driver) printSummary(s *Summary) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", reportRule)
	fmt.Fprintf(&b, "Processing Summary\n")
	fmt.Fprintf(&b, "%s\n", reportRule)
	fmt.Fprintf(&b, "Original rows: %d\n", s.OriginalRows)
	fmt.Fprintf(&b, "Final rows: %d\n", s.FinalRows)
	fmt.Fprintf(&b, "Rows removed: %d\n", s.RowsRemoved)
	fmt.Fprintf(&b, "Final columns: %d\n", s.FinalColumns)
	fmt.Fprintf(&b, "Output file: %s (%.2f KB)\n", s.OutputPath, float64(s.FileSize)/1024)
	fmt.Fprintf(&b, "%s\n\n", reportRule)
	io.WriteString(drv.out, b.String())
}
