package eventmodel

import (
	"context"
	"sort"
	"sync"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/observability"
)

// Node is a vertex of a propagation network. It owns a listener registry
// and an outgoing edge registry; neither is reachable except through its
// methods. Create nodes with Network.NewNode and embed them in host objects
// to give those objects the Emitter capability.
type Node struct {
	id   string
	name string
	seq  uint64
	net  *Network

	mu          sync.RWMutex
	listeners   map[string][]Listener
	targets     map[string][]Emitter
	targetOrder []string // event names of targets, first-added first
}

// ID returns the node's unique identifier within its network.
func (n *Node) ID() string {
	return n.id
}

// Name returns the node's display name (the ID if none was given).
func (n *Node) Name() string {
	return n.name
}

// Network returns the owning network.
func (n *Node) Network() *Network {
	return n.net
}

// IsRoot reports whether n is its network's root.
func (n *Node) IsRoot() bool {
	return n.net != nil && n.net.root == n
}

// String returns the node name.
func (n *Node) String() string {
	return n.name
}

func (n *Node) eventNode() *Node {
	return n
}

// On registers l for event. Any event name is accepted, including Wildcard.
// Registering the same listener twice makes it run twice.
//
// Panics if l is nil.
func (n *Node) On(event string, l Listener) {
	if l == nil {
		panic("eventmodel: listener cannot be nil")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.listeners[event] = append(n.listeners[event], l)
}

// Off removes every listener registered for event and returns how many were removed.
func (n *Node) Off(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	removed := len(n.listeners[event])
	delete(n.listeners, event)
	return removed
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners[event])
}

// EventNames returns the event names that have listeners, sorted.
func (n *Node) EventNames() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.listeners))
	for name := range n.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snapshotListeners copies the listeners for event and for Wildcard so
// dispatch can run them without holding the lock. Listeners added during
// a dispatch run from the next trigger on.
func (n *Node) snapshotListeners(event string) (named, wildcard []Listener) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if ls := n.listeners[event]; len(ls) > 0 {
		named = append([]Listener(nil), ls...)
	}
	if ls := n.listeners[Wildcard]; len(ls) > 0 {
		wildcard = append([]Listener(nil), ls...)
	}
	return named, wildcard
}

// Retire announces that n is going away. It first drops n's own outgoing
// edges, then triggers EventDestroy so every node propagating to n drops
// those edges, and finally removes n from the network index. Listeners
// stay registered. Since n has no targets left, the destroy event reaches
// n's listeners and the root only.
//
// Retiring the root is a no-op.
func (n *Node) Retire() {
	if n.IsRoot() {
		return
	}

	n.net.topoMu.Lock()
	n.mu.Lock()
	dropped := 0
	for _, ts := range n.targets {
		dropped += len(ts)
	}
	n.targets = make(map[string][]Emitter)
	n.targetOrder = nil
	n.mu.Unlock()
	n.net.topoMu.Unlock()

	if dropped > 0 {
		n.net.metrics.RecordEdge(context.Background(), observability.EdgeRemoved, dropped)
	}

	n.Trigger(EventDestroy)

	n.net.nodes.Delete(n.id)
	observability.LogNodeRetired(n.net.logger, n.id, dropped)
}
