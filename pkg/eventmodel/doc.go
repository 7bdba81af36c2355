/*
Package eventmodel attaches an event capability to arbitrary objects and
links them into a directed graph of event forwarding.

# Overview

Every participating object embeds a *Node created by a Network. A node can
register listeners for named events, trigger events on itself, and forward
events to other nodes of the same network along propagation edges. The
network rejects any edge that would let an event come back to its source,
so dispatch always terminates.

Each network owns one root node. An event that reaches a node with no
propagation target for that event name is also dispatched on the root, so
a listener on the root sees events nobody wired explicitly.

# Basic Usage

	type Document struct {
	    *eventmodel.Node
	    Path string
	}

	net := eventmodel.NewNetwork()
	doc := &Document{Node: net.NewNode("document"), Path: "a.txt"}
	editor := net.NewNode("editor")

	editor.On("saved", func(ctx eventmodel.Context, args ...any) {
	    fmt.Println("saved", args[0])
	})
	if err := doc.PropagateTo("saved", editor); err != nil {
	    log.Fatal(err)
	}

	doc.Trigger("saved", doc.Path) // editor prints "saved a.txt"

# Wildcards

Wildcard ("*") works in both registries. A listener registered under
Wildcard receives every event, with the event name as its first argument.
An edge added under Wildcard forwards every event:

	net.Root().On(eventmodel.Wildcard, func(ctx eventmodel.Context, args ...any) {
	    slog.Debug("unrouted event", "name", args[0], "from", ctx.Origin().ID())
	})
	panel.PropagateTo(eventmodel.Wildcard, window)

# Cycles

PropagateTo returns a *CycleError (matching ErrCycle) when the source is
already reachable from the target through any chain of edges, whatever
their event names. Self edges and edges touching the root are rejected the
same way.

# Teardown

The first edge from A to B registers an EventDestroy listener on B that
removes every edge from A to B. A node about to be discarded calls Retire,
or triggers EventDestroy itself, and its upstream nodes let go of it:

	panel.Retire()

Retire drops the node's own outgoing edges before it fires EventDestroy, so
the event does not reach live downstream nodes. A raw Trigger(EventDestroy)
is an ordinary event and follows Wildcard edges like any other.

# Observability

Logging uses log/slog. Metrics and tracing use OpenTelemetry and are off by
default:

	net := eventmodel.NewNetwork(
	    eventmodel.WithLogger(logger),
	    eventmodel.WithMetrics(true),
	    eventmodel.WithTracing(true),
	)

Each top-level Trigger is one span; forwarding hops and root fallbacks are
recorded as span events.

# Topologies

Network.Snapshot exports the wiring as a topology.Topology, and Build or
Network.Restore recreate it. Topologies can be read from YAML or JSON files
and persisted with a topology.Store.

# Concurrency

Nodes and networks are safe for concurrent use. Listeners run synchronously
on the goroutine that called Trigger and no lock is held while they run, so
listeners may register listeners, change edges and trigger further events.
*/
package eventmodel
