package eventmodel

import (
	"log/slog"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/observability"
)

// networkConfig holds configuration shared by every node of a network.
type networkConfig struct {
	rootName       string
	maxDepth       int
	recoverPanics  bool
	errorHandler   func(error)
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
}

// defaultNetworkConfig returns the default network configuration.
func defaultNetworkConfig() networkConfig {
	return networkConfig{
		rootName: "root",
		maxDepth: 1000,
		logger:   slog.Default(),
	}
}

// NetworkOption configures a Network.
type NetworkOption func(*networkConfig)

// WithRootName sets the ID and name of the root node.
// Default: "root"
func WithRootName(name string) NetworkOption {
	return func(c *networkConfig) {
		if name != "" {
			c.rootName = name
		}
	}
}

// WithMaxDepth bounds how many forwarding hops one trigger may take,
// including nested triggers made by listeners through TriggerContext.
// Default: 1000
//
// Every hop counts, so the limit also cuts acyclic chains longer than n,
// and the root fallback from a leaf at depth n is itself one hop too many.
// A dispatch that reaches the limit stops descending and reports a
// DepthError to the error handler.
func WithMaxDepth(n int) NetworkOption {
	return func(c *networkConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRecoverPanics makes a panicking listener report a PanicError instead
// of unwinding through Trigger. Remaining listeners and targets still run.
// Default: false
func WithRecoverPanics(enabled bool) NetworkOption {
	return func(c *networkConfig) {
		c.recoverPanics = enabled
	}
}

// WithErrorHandler receives dispatch problems (DepthError, PanicError).
// They are logged whether or not a handler is set.
func WithErrorHandler(fn func(error)) NetworkOption {
	return func(c *networkConfig) {
		c.errorHandler = fn
	}
}

// WithLogger sets the logger used for dispatch and wiring logs.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) NetworkOption {
	return func(c *networkConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) NetworkOption {
	return func(c *networkConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry tracing using the global tracer provider.
// Each top-level trigger gets one span; forwarding hops are span events.
func WithTracing(enabled bool) NetworkOption {
	return func(c *networkConfig) {
		c.tracingEnabled = enabled
	}
}

// WithMetricsRecorder sets a custom metrics recorder and enables metrics.
func WithMetricsRecorder(r observability.MetricsRecorder) NetworkOption {
	return func(c *networkConfig) {
		c.metrics = r
		c.metricsEnabled = r != nil
	}
}

// WithSpanManager sets a custom span manager and enables tracing.
func WithSpanManager(s observability.SpanManager) NetworkOption {
	return func(c *networkConfig) {
		c.spans = s
		c.tracingEnabled = s != nil
	}
}

// NodeOption configures a single node.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	id string
}

// WithID sets the node ID. Default: a random UUID.
// NewNode panics if the ID is already taken in the network.
func WithID(id string) NodeOption {
	return func(c *nodeConfig) {
		c.id = id
	}
}
