package telemetry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/telemetry"
	"go.trai.ch/pages/internal/core/ports"
	"go.trai.ch/pages/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_ForwardsSpansToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	errSyntax := errors.New("expected \";\"")
	taskErr := fmt.Errorf("failed to transform asset main.scss: %w", errSyntax)

	var got error
	gomock.InOrder(
		renderer.EXPECT().OnPlanEmit("series(a, b)", []string{"a", "b"}),
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "a", ports.SpanKindStage, gomock.Any()),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ string, _ time.Time, err error) { got = err }),
	)

	tracer := telemetry.NewOTelTracer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	tracer.EmitPlan(t.Context(), "series(a, b)", []string{"a", "b"})

	_, span := tracer.Start(t.Context(), "a", ports.WithSpanKind(ports.SpanKindStage))
	span.SetAttribute("files", 3)
	span.SetAttribute("paths", []string{"x"})
	span.SetAttribute("ratio", struct{}{})
	span.RecordError(taskErr)
	span.End()

	// The renderer receives the task error itself, not a copy of its text.
	require.Error(t, got)
	assert.Same(t, taskErr, got)
	assert.True(t, errors.Is(got, errSyntax))
}

func TestOTelTracer_SpanWithoutKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "clean", "", gomock.Any()),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
	)

	tracer := telemetry.NewOTelTracer(renderer)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	_, span := tracer.Start(t.Context(), "clean")
	span.End()
}

func TestOTelTracer_NilRenderer(t *testing.T) {
	tracer := telemetry.NewOTelTracer(nil)

	ctx, span := tracer.Start(context.Background(), "test-span")
	require.NotNil(t, ctx)
	assert.NotNil(t, span)

	tracer.EmitPlan(ctx, "test-span", []string{"test-span"})
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	tracer.EmitPlan(ctx, "test-span", nil)
	span.End()
}
