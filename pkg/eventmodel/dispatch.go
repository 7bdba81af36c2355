package eventmodel

import (
	"context"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/randalmurphal/eventmodel/pkg/eventmodel/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Trigger dispatches event on n synchronously. It returns once every
// listener reached by the dispatch has returned.
//
// Dispatch order on each node:
//  1. listeners registered for event, in registration order, with args
//  2. listeners registered for Wildcard, with event prepended to args
//  3. each direct propagation target for event (or Wildcard), recursively
//  4. the network root, if step 3 found no target and n is not the root
//
// Example:
//
//	doc.On("saved", func(ctx eventmodel.Context, args ...any) {
//	    fmt.Println("saved", args[0])
//	})
//	doc.Trigger("saved", "a.txt")
func (n *Node) Trigger(event string, args ...any) {
	n.TriggerContext(context.Background(), event, args...)
}

// TriggerContext is Trigger with a caller context. When a listener passes
// its own Context, the nested dispatch keeps the dispatch ID and counts its
// depth from the listener's depth, so the depth limit also bounds listeners
// that re-trigger events.
func (n *Node) TriggerContext(ctx context.Context, event string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	net := n.net

	dc := &dispatchContext{
		Context: ctx,
		logger:  net.logger,
		event:   event,
		origin:  n,
		node:    n,
		stats:   &dispatchStats{},
	}
	if parent, ok := ctx.(*dispatchContext); ok {
		dc.Context = parent.Context
		dc.dispatchID = parent.dispatchID
		dc.depth = parent.depth + 1
	} else {
		dc.dispatchID = uuid.NewString()
	}
	dc.logger = net.logger.With("dispatch_id", dc.dispatchID, "event", event)

	var span trace.Span
	if net.cfg.tracingEnabled {
		dc.Context, span = net.spans.StartTriggerSpan(dc.Context, n.id, event, dc.dispatchID)
		defer func() {
			net.spans.EndSpanWithError(span, dc.stats.err)
		}()
	}

	done := observability.TimedOperation()
	n.dispatch(dc, args)
	duration := done()

	net.metrics.RecordTrigger(dc.Context, event, duration, dc.stats.hops)
	observability.LogDispatch(net.logger, n.id, event, dc.stats.hops, dc.stats.listeners, observability.Milliseconds(duration))
}

// dispatch runs n's listeners for the event in dc and forwards it.
func (n *Node) dispatch(dc *dispatchContext, args []any) {
	net := n.net
	if dc.depth > net.cfg.maxDepth {
		observability.LogMaxDepth(dc.logger, n.id, dc.event, net.cfg.maxDepth)
		net.report(dc.stats, &DepthError{Max: net.cfg.maxDepth, NodeID: n.id, Event: dc.event})
		return
	}

	dc.stats.hops++
	if net.cfg.tracingEnabled && dc.depth > 0 {
		net.spans.AddSpanEvent(dc.Context, observability.SpanEventHop,
			attribute.String("node.id", n.id),
			attribute.Int("depth", dc.depth),
		)
	}

	named, wildcard := n.snapshotListeners(dc.event)
	if len(named)+len(wildcard) > 0 {
		lc := dc.listenerContext()
		for _, l := range named {
			n.invoke(lc, l, args)
		}
		if len(wildcard) > 0 {
			withEvent := make([]any, 0, len(args)+1)
			withEvent = append(withEvent, dc.event)
			withEvent = append(withEvent, args...)
			for _, l := range wildcard {
				n.invoke(lc, l, withEvent)
			}
		}
	}

	// Targets are read after listeners ran, so edge changes made by a
	// listener on this node apply to this dispatch.
	targets := n.DirectPropagationTargets(dc.event)
	for _, target := range targets {
		t := nodeOf(target)
		t.dispatch(dc.hop(t), args)
	}

	if len(targets) == 0 && !n.IsRoot() {
		dc.stats.fallbacks++
		observability.LogRootFallback(dc.logger, n.id, dc.event)
		net.metrics.RecordRootFallback(dc.Context, dc.event)
		if net.cfg.tracingEnabled {
			net.spans.AddSpanEvent(dc.Context, observability.SpanEventRootFallback,
				attribute.String("node.id", n.id),
			)
		}
		net.root.dispatch(dc.hop(net.root), args)
	}
}

// invoke calls one listener. With panic recovery enabled a panic becomes a
// PanicError for the error handler and dispatch continues.
func (n *Node) invoke(ctx *dispatchContext, l Listener, args []any) {
	net := n.net
	ctx.stats.listeners++

	if !net.cfg.recoverPanics {
		l(ctx, args...)
		net.metrics.RecordListenerCall(ctx.Context, ctx.event, false)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			observability.LogListenerPanic(ctx.logger, n.id, ctx.event, r)
			net.metrics.RecordListenerCall(ctx.Context, ctx.event, true)
			net.report(ctx.stats, &PanicError{
				NodeID: n.id,
				Event:  ctx.event,
				Value:  r,
				Stack:  string(debug.Stack()),
			})
		}
	}()

	l(ctx, args...)
	net.metrics.RecordListenerCall(ctx.Context, ctx.event, false)
}
