package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the eventmodel tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventmodel")

// Span event names added during a traced dispatch.
const (
	SpanEventHop          = "eventmodel.hop"
	SpanEventRootFallback = "eventmodel.root_fallback"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTriggerSpan starts a span covering one top-level trigger and all
	// of its forwarding.
	StartTriggerSpan(ctx context.Context, nodeID, event, dispatchID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartTriggerSpan starts a trigger span.
func (m *otelSpanManager) StartTriggerSpan(ctx context.Context, nodeID, event, dispatchID string) (context.Context, trace.Span) {
	return StartTriggerSpan(ctx, nodeID, event, dispatchID)
}

// EndSpanWithError completes a span.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartTriggerSpan starts a span for a top-level trigger.
// Uses the global OTel tracer.
func StartTriggerSpan(ctx context.Context, nodeID, event, dispatchID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventmodel.trigger "+event,
		trace.WithAttributes(
			attribute.String("node.id", nodeID),
			attribute.String("event.name", event),
			attribute.String("dispatch.id", dispatchID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
