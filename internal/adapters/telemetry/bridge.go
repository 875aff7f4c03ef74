package telemetry

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/pages/internal/core/ports"
)

// KindAttribute is the span attribute holding the ports.SpanConfig kind.
const KindAttribute attribute.Key = "pages.kind"

// Bridge implements sdktrace.SpanProcessor and presents task spans through a Renderer.
//
// Errors recorded through OTelSpan reach the renderer as the same error value, so
// wrapped causes survive. Spans failed by other means fall back to their status text.
type Bridge struct {
	renderer ports.Renderer

	errs sync.Map // trace.SpanID -> error
}

// NewBridge returns a new Bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart forwards the span name and kind to the renderer.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.renderer.OnTaskStart(
		sc.SpanID().String(),
		parentID,
		s.Name(),
		spanKind(s.Attributes()),
		s.StartTime(),
	)
}

// OnEnd forwards the span outcome to the renderer.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if recorded, ok := b.errs.LoadAndDelete(sc.SpanID()); ok {
		err, _ = recorded.(error)
	} else if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "task failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// recordError keeps err until the span with id ends.
func (b *Bridge) recordError(id trace.SpanID, err error) {
	if b.renderer == nil || err == nil {
		return
	}
	b.errs.Store(id, err)
}

func spanKind(attrs []attribute.KeyValue) string {
	for _, kv := range attrs {
		if kv.Key == KindAttribute {
			return kv.Value.AsString()
		}
	}
	return ""
}
