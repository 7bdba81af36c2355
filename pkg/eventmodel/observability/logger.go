// Package observability provides structured logging, metrics and tracing
// for eventmodel networks.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Metrics and tracing are opt-in and have no-op implementations when disabled.
// Every logging helper tolerates a nil logger.
package observability

import (
	"log/slog"
	"time"
)

// LogDispatch logs the completion of a top-level trigger.
func LogDispatch(logger *slog.Logger, nodeID, event string, hops, listeners int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event dispatched",
		slog.String("node_id", nodeID),
		slog.String("event", event),
		slog.Int("hops", hops),
		slog.Int("listeners", listeners),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRootFallback logs an event that had no explicit target and fell back to the root.
func LogRootFallback(logger *slog.Logger, nodeID, event string) {
	if logger == nil {
		return
	}
	logger.Debug("event fell back to root",
		slog.String("node_id", nodeID),
		slog.String("event", event),
	)
}

// LogEdgeAdded logs a new propagation edge.
func LogEdgeAdded(logger *slog.Logger, source, event, target string, firstToTarget bool) {
	if logger == nil {
		return
	}
	logger.Debug("propagation edge added",
		slog.String("source", source),
		slog.String("event", event),
		slog.String("target", target),
		slog.Bool("first_to_target", firstToTarget),
	)
}

// LogEdgeRejected logs a PropagateTo call that failed.
func LogEdgeRejected(logger *slog.Logger, source, event, target string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("propagation edge rejected",
		slog.String("source", source),
		slog.String("event", event),
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
}

// LogEdgesDropped logs removal of every edge from source to target.
func LogEdgesDropped(logger *slog.Logger, source, target string, removed int) {
	if logger == nil {
		return
	}
	logger.Debug("propagation edges dropped",
		slog.String("source", source),
		slog.String("target", target),
		slog.Int("removed", removed),
	)
}

// LogListenerPanic logs a recovered listener panic.
func LogListenerPanic(logger *slog.Logger, nodeID, event string, value any) {
	if logger == nil {
		return
	}
	logger.Error("listener panicked",
		slog.String("node_id", nodeID),
		slog.String("event", event),
		slog.Any("panic", value),
	)
}

// LogMaxDepth logs a dispatch cut off at the depth limit.
func LogMaxDepth(logger *slog.Logger, nodeID, event string, maxDepth int) {
	if logger == nil {
		return
	}
	logger.Warn("dispatch depth limit reached",
		slog.String("node_id", nodeID),
		slog.String("event", event),
		slog.Int("max_depth", maxDepth),
	)
}

// LogNodeRetired logs a node leaving its network.
func LogNodeRetired(logger *slog.Logger, nodeID string, droppedEdges int) {
	if logger == nil {
		return
	}
	logger.Info("node retired",
		slog.String("node_id", nodeID),
		slog.Int("dropped_edges", droppedEdges),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log fields.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
