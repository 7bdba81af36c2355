package eventmodel

import (
	"context"
	"log/slog"
)

// Context is handed to every listener.
// It extends context.Context with the dispatch metadata of the trigger
// that reached the listener.
type Context interface {
	context.Context

	// Logger returns the network logger enriched with dispatch_id, event and node_id.
	Logger() *slog.Logger

	// Event returns the event name being dispatched.
	Event() string

	// Origin returns the node Trigger was called on. It stays the same while
	// the event is forwarded along propagation edges.
	Origin() *Node

	// Node returns the node whose listeners are currently running.
	Node() *Node

	// DispatchID identifies one top-level trigger and all of its forwarding.
	DispatchID() string

	// Depth is 0 on the origin and grows by one per forwarding hop.
	Depth() int
}

// dispatchStats is shared by every hop of one top-level trigger.
type dispatchStats struct {
	hops      int
	listeners int
	fallbacks int
	err       error
}

// dispatchContext is the internal implementation of Context.
type dispatchContext struct {
	context.Context

	logger     *slog.Logger
	event      string
	origin     *Node
	node       *Node
	dispatchID string
	depth      int
	stats      *dispatchStats
}

// Logger returns the enriched logger.
func (c *dispatchContext) Logger() *slog.Logger {
	return c.logger
}

// Event returns the event name.
func (c *dispatchContext) Event() string {
	return c.event
}

// Origin returns the triggering node.
func (c *dispatchContext) Origin() *Node {
	return c.origin
}

// Node returns the current node.
func (c *dispatchContext) Node() *Node {
	return c.node
}

// DispatchID returns the dispatch identifier.
func (c *dispatchContext) DispatchID() string {
	return c.dispatchID
}

// Depth returns the forwarding depth.
func (c *dispatchContext) Depth() int {
	return c.depth
}

// hop returns the context for dispatching on the next node.
func (c *dispatchContext) hop(next *Node) *dispatchContext {
	return &dispatchContext{
		Context:    c.Context,
		logger:     c.logger,
		event:      c.event,
		origin:     c.origin,
		node:       next,
		dispatchID: c.dispatchID,
		depth:      c.depth + 1,
		stats:      c.stats,
	}
}

// nodeLogger is the logger listeners see on a given node.
func (c *dispatchContext) nodeLogger() *slog.Logger {
	return c.logger.With(slog.String("node_id", c.node.id), slog.Int("depth", c.depth))
}

// listenerContext binds the node-scoped logger for listener calls.
func (c *dispatchContext) listenerContext() *dispatchContext {
	lc := *c
	lc.logger = c.nodeLogger()
	return &lc
}
