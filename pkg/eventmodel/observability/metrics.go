package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Edge operations recorded by RecordEdge.
const (
	EdgeAdded    = "added"
	EdgeRejected = "rejected"
	EdgeRemoved  = "removed"
)

// MetricsRecorder records eventmodel metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTrigger records a completed top-level trigger.
	RecordTrigger(ctx context.Context, event string, duration time.Duration, hops int)

	// RecordListenerCall records one listener invocation.
	RecordListenerCall(ctx context.Context, event string, panicked bool)

	// RecordRootFallback records an event delivered to the root by fallback.
	RecordRootFallback(ctx context.Context, event string)

	// RecordEdge records an edge being added, rejected or removed.
	RecordEdge(ctx context.Context, op string, count int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	triggers       metric.Int64Counter
	triggerLatency metric.Float64Histogram
	hops           metric.Int64Histogram
	listenerCalls  metric.Int64Counter
	panics         metric.Int64Counter
	fallbacks      metric.Int64Counter
	edges          metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the shared OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates instruments on the global meter provider.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventmodel")

	triggers, err := meter.Int64Counter("eventmodel.trigger.count",
		metric.WithDescription("Number of top-level triggers"),
	)
	if err != nil {
		return nil, err
	}

	triggerLatency, err := meter.Float64Histogram("eventmodel.trigger.latency_ms",
		metric.WithDescription("Trigger latency including all forwarding, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	hops, err := meter.Int64Histogram("eventmodel.trigger.hops",
		metric.WithDescription("Nodes dispatched per top-level trigger"),
	)
	if err != nil {
		return nil, err
	}

	listenerCalls, err := meter.Int64Counter("eventmodel.listener.calls",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	panics, err := meter.Int64Counter("eventmodel.listener.panics",
		metric.WithDescription("Number of recovered listener panics"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("eventmodel.root.fallbacks",
		metric.WithDescription("Number of events delivered to the root by fallback"),
	)
	if err != nil {
		return nil, err
	}

	edges, err := meter.Int64Counter("eventmodel.edge.changes",
		metric.WithDescription("Propagation edge changes by operation"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		triggers:       triggers,
		triggerLatency: triggerLatency,
		hops:           hops,
		listenerCalls:  listenerCalls,
		panics:         panics,
		fallbacks:      fallbacks,
		edges:          edges,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordTrigger records a top-level trigger.
func (m *otelMetrics) RecordTrigger(ctx context.Context, event string, duration time.Duration, hops int) {
	attrs := metric.WithAttributes(attribute.String("event", event))
	m.triggers.Add(ctx, 1, attrs)
	m.triggerLatency.Record(ctx, Milliseconds(duration), attrs)
	m.hops.Record(ctx, int64(hops), attrs)
}

// RecordListenerCall records a listener invocation.
func (m *otelMetrics) RecordListenerCall(ctx context.Context, event string, panicked bool) {
	attrs := metric.WithAttributes(attribute.String("event", event))
	m.listenerCalls.Add(ctx, 1, attrs)
	if panicked {
		m.panics.Add(ctx, 1, attrs)
	}
}

// RecordRootFallback records a root fallback delivery.
func (m *otelMetrics) RecordRootFallback(ctx context.Context, event string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

// RecordEdge records an edge change.
func (m *otelMetrics) RecordEdge(ctx context.Context, op string, count int) {
	if count <= 0 {
		return
	}
	m.edges.Add(ctx, int64(count), metric.WithAttributes(attribute.String("op", op)))
}
