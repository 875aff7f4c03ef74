package ports

import "context"

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals the shape of the graph about to run and the tasks it contains.
	EmitPlan(ctx context.Context, shape string, taskNames []string)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Span kinds.
const (
	// SpanKindStage marks a task run as part of a build command.
	SpanKindStage = "stage"
	// SpanKindRebuild marks a task rerun by the watch loop after a source changed.
	SpanKindRebuild = "rebuild"
)

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Kind labels the span, one of the SpanKind constants.
	Kind string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithSpanKind labels the span.
func WithSpanKind(kind string) SpanOption {
	return func(c *SpanConfig) {
		c.Kind = kind
	}
}
