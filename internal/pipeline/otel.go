package pipeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "tabproc.pipeline"
)

// Tracer provides OpenTelemetry instrumentation for pipeline runs.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new pipeline tracer.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(TracerName)}
}

// TraceRun creates a span for the entire pipeline run.
func (t *Tracer) TraceRun(ctx context.Context, runID, inputPath string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input_path", inputPath),
		),
	)
}

// TraceStage creates a span for an individual stage execution.
func (t *Tracer) TraceStage(ctx context.Context, runID, stageID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("pipeline.stage.%s", stageID)
	return t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", stageID),
		),
	)
}

// RecordStageCompletion records stage outcome on its span.
func RecordStageCompletion(span trace.Span, rows int, err error) {
	span.SetAttributes(attribute.Int("stage.rows_after", rows))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stage execution failed")
		return
	}
	span.SetStatus(codes.Ok, "stage completed")
}

// RecordRunCompletion records the run outcome on the run span.
func RecordRunCompletion(span trace.Span, summary *Summary, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline run failed")
		return
	}
	if summary != nil {
		span.SetAttributes(
			attribute.Int("run.original_rows", summary.OriginalRows),
			attribute.Int("run.final_rows", summary.FinalRows),
			attribute.Int("run.final_columns", summary.FinalColumns),
			attribute.Int64("run.output_bytes", summary.FileSize),
		)
	}
	span.SetStatus(codes.Ok, "pipeline run completed")
}
