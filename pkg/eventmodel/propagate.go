package eventmodel

import (
	"context"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/observability"
)

// PropagateTo adds the edge (n, event, target): whenever n dispatches event,
// target dispatches it too. Use Wildcard to forward every event.
//
// Returns a MissingCapabilityError if target is nil, embeds a nil node or
// belongs to another network, and a CycleError if n is the root, target is
// the root, target is n, or n is already reachable from target through any
// edge. Nothing is changed when an error is returned.
//
// The first edge from n to a given target also registers an EventDestroy
// listener on target that calls n.StopPropagatingTo(target). Adding an
// existing (event, target) edge again is a no-op.
func (n *Node) PropagateTo(event string, target Emitter) error {
	return n.propagateTo("PropagateTo", event, target)
}

// PropagateFrom is source.PropagateTo(event, n), with the same errors.
func (n *Node) PropagateFrom(event string, source Emitter) error {
	src := nodeOf(source)
	if src == nil || src.net != n.net {
		err := &MissingCapabilityError{Op: "PropagateFrom", Node: n.id, Event: event, Foreign: src != nil}
		return n.net.rejectEdge(idOf(src), event, n.id, err)
	}
	return src.propagateTo("PropagateFrom", event, n)
}

func (n *Node) propagateTo(op, event string, target Emitter) error {
	net := n.net
	t := nodeOf(target)
	if t == nil || t.net != net {
		err := &MissingCapabilityError{Op: op, Node: n.id, Event: event, Foreign: t != nil}
		return net.rejectEdge(n.id, event, idOf(t), err)
	}

	net.topoMu.Lock()
	defer net.topoMu.Unlock()

	if reason := n.cycleReason(t); reason != "" {
		err := &CycleError{Source: n.id, Target: t.id, Event: event, Reason: reason}
		return net.rejectEdge(n.id, event, t.id, err)
	}

	added, first := n.addTarget(event, target, t)
	if !added {
		return nil
	}
	if first {
		t.On(EventDestroy, func(Context, ...any) {
			n.StopPropagatingTo(t)
		})
	}

	observability.LogEdgeAdded(net.logger, n.id, event, t.id, first)
	net.metrics.RecordEdge(context.Background(), observability.EdgeAdded, 1)
	return nil
}

// cycleReason returns why n -> t may not exist, or "" if it may.
// The reachability check ignores event names, so two edges with different
// names still may not close a loop.
func (n *Node) cycleReason(t *Node) string {
	switch {
	case n.IsRoot():
		return ReasonRootSource
	case t.IsRoot():
		return ReasonRootTarget
	case t == n:
		return ReasonSelf
	}
	for _, reachable := range t.AllPropagationTargets() {
		if nodeOf(reachable) == n {
			return ReasonReachable
		}
	}
	return ""
}

// addTarget appends target under event unless already present there.
// first reports that n had no edge to t under any event name before.
func (n *Node) addTarget(event string, target Emitter, t *Node) (added, first bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	first = true
	for _, name := range n.targetOrder {
		for _, existing := range n.targets[name] {
			if nodeOf(existing) != t {
				continue
			}
			if name == event {
				return false, false
			}
			first = false
		}
	}

	if _, ok := n.targets[event]; !ok {
		n.targetOrder = append(n.targetOrder, event)
	}
	n.targets[event] = append(n.targets[event], target)
	return true, first
}

// StopPropagatingTo removes target from every event name's target list.
// It is a no-op when there is no such edge. The EventDestroy listener
// registered on target stays behind and does nothing once the edges are gone.
func (n *Node) StopPropagatingTo(target Emitter) {
	t := nodeOf(target)
	if t == nil {
		return
	}

	n.net.topoMu.Lock()
	removed := n.removeTarget(t)
	n.net.topoMu.Unlock()

	if removed > 0 {
		observability.LogEdgesDropped(n.net.logger, n.id, t.id, removed)
		n.net.metrics.RecordEdge(context.Background(), observability.EdgeRemoved, removed)
	}
}

func (n *Node) removeTarget(t *Node) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	removed := 0
	order := n.targetOrder[:0]
	for _, name := range n.targetOrder {
		ts := n.targets[name]
		kept := ts[:0]
		for _, existing := range ts {
			if nodeOf(existing) == t {
				removed++
				continue
			}
			kept = append(kept, existing)
		}
		// Release removed targets still held by the backing array.
		clear(ts[len(kept):])
		if len(kept) == 0 {
			delete(n.targets, name)
			continue
		}
		n.targets[name] = kept
		order = append(order, name)
	}
	n.targetOrder = order
	return removed
}

// DirectPropagationTargets returns the nodes one edge away, de-duplicated,
// in the order their edges were added. With event names, only edges for
// those names and for Wildcard count; with none, every edge counts.
func (n *Node) DirectPropagationTargets(event ...string) []Emitter {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := n.targetOrder
	if len(event) > 0 {
		names = append(append(make([]string, 0, len(event)+1), event...), Wildcard)
	}

	var out []Emitter
	seen := make(map[*Node]bool)
	for _, name := range names {
		for _, target := range n.targets[name] {
			tn := nodeOf(target)
			if seen[tn] {
				continue
			}
			seen[tn] = true
			out = append(out, target)
		}
	}
	return out
}

// AllPropagationTargets returns every node reachable from n by following
// DirectPropagationTargets(event...) repeatedly, de-duplicated. Traversal is
// breadth-first, so direct targets come before their own targets.
func (n *Node) AllPropagationTargets(event ...string) []Emitter {
	var out []Emitter
	seen := make(map[*Node]bool)
	queue := []*Node{n}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, target := range current.DirectPropagationTargets(event...) {
			tn := nodeOf(target)
			if seen[tn] {
				continue
			}
			seen[tn] = true
			out = append(out, target)
			queue = append(queue, tn)
		}
	}
	return out
}
