package eventmodel

import (
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/topology"
)

// Snapshot captures the network's live nodes and edges. Edges are listed
// per source node in creation order, then in the order they were added.
// Listeners are not part of a snapshot.
func (net *Network) Snapshot() topology.Topology {
	net.topoMu.Lock()
	defer net.topoMu.Unlock()

	nodes := net.Nodes()
	t := topology.Topology{
		Nodes:   make([]topology.NodeInfo, 0, len(nodes)),
		TakenAt: time.Now().UTC(),
	}
	for _, n := range nodes {
		t.Nodes = append(t.Nodes, topology.NodeInfo{ID: n.id, Name: n.name, Root: n.IsRoot()})
		t.Edges = append(t.Edges, n.edges()...)
	}
	return t
}

// edges lists n's outgoing edges.
func (n *Node) edges() []topology.Edge {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []topology.Edge
	for _, name := range n.targetOrder {
		for _, target := range n.targets[name] {
			out = append(out, topology.Edge{Source: n.id, Event: name, Target: nodeOf(target).id})
		}
	}
	return out
}

// Restore adds the nodes and edges of t to the network. Nodes whose ID
// already exists are reused; nodes marked Root are skipped, since every
// network has its own root. Each edge goes through PropagateTo, so cyclic
// edges are rejected exactly as they would be at runtime.
//
// The topology is validated first and nothing is changed if that fails.
// Edge failures do not stop the restore; they are joined into the result.
func (net *Network) Restore(t topology.Topology) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("restore topology: %w", err)
	}

	for _, info := range t.Nodes {
		if info.Root {
			continue
		}
		if _, ok := net.Lookup(info.ID); ok {
			continue
		}
		net.NewNode(info.Name, WithID(info.ID))
	}

	var errs []error
	for _, e := range t.Edges {
		src, _ := net.Lookup(e.Source)
		dst, _ := net.Lookup(e.Target)
		if err := src.PropagateTo(e.Event, dst); err != nil {
			errs = append(errs, fmt.Errorf("edge %s: %w", e, err))
		}
	}
	return errors.Join(errs...)
}

// Build creates a network from a topology.
// The returned network is usable even when err reports rejected edges.
func Build(t topology.Topology, opts ...NetworkOption) (*Network, error) {
	net := NewNetwork(opts...)
	return net, net.Restore(t)
}
