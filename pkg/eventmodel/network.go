package eventmodel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/randalmurphal/eventmodel/pkg/eventmodel/observability"
	"github.com/randalmurphal/eventmodel/pkg/eventmodel/registry"
)

// Network owns a root node and indexes every node created from it.
// Nodes of different networks cannot be wired together.
//
// The root is the fallback sink: an event triggered on a node with no
// propagation target for that event name is also dispatched on the root,
// so a listener on Root() observes every event exactly once per leaf.
//
// Network is safe for concurrent use. Edge mutations are serialized
// network-wide; dispatch never holds that lock while listeners run.
type Network struct {
	cfg     networkConfig
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	root  *Node
	nodes *registry.Registry[string, *Node]
	seq   atomic.Uint64

	// topoMu makes the cycle check and the edge insert one atomic step.
	topoMu sync.Mutex
}

// NewNetwork creates a network and its root node.
//
// Example:
//
//	net := eventmodel.NewNetwork(eventmodel.WithLogger(logger))
//	net.Root().On(eventmodel.Wildcard, func(ctx eventmodel.Context, args ...any) {
//	    ctx.Logger().Debug("event", "name", args[0])
//	})
func NewNetwork(opts ...NetworkOption) *Network {
	cfg := defaultNetworkConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	net := &Network{
		cfg:     cfg,
		logger:  cfg.logger,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		nodes:   registry.New[string, *Node](),
	}

	if cfg.metricsEnabled {
		if cfg.metrics != nil {
			net.metrics = cfg.metrics
		} else {
			net.metrics = observability.NewMetricsRecorder()
		}
	}
	if cfg.tracingEnabled {
		if cfg.spans != nil {
			net.spans = cfg.spans
		} else {
			net.spans = observability.NewSpanManager()
		}
	}

	net.root = net.newNode(cfg.rootName, cfg.rootName)
	net.nodes.Register(net.root.id, net.root)
	return net
}

// Root returns the network's fallback node.
func (net *Network) Root() *Node {
	return net.root
}

// NewNode creates a node with empty registries.
// The name is informational; the ID (see WithID) must be unique.
//
// Panics if the ID is already taken in this network.
func (net *Network) NewNode(name string, opts ...NodeOption) *Node {
	var nc nodeConfig
	for _, opt := range opts {
		opt(&nc)
	}
	if nc.id == "" {
		nc.id = uuid.NewString()
	}

	n := net.newNode(nc.id, name)
	if !net.nodes.RegisterNew(n.id, n) {
		panic(fmt.Sprintf("eventmodel: duplicate node ID: %s", n.id))
	}
	return n
}

func (net *Network) newNode(id, name string) *Node {
	if name == "" {
		name = id
	}
	return &Node{
		id:        id,
		name:      name,
		seq:       net.seq.Add(1),
		net:       net,
		listeners: make(map[string][]Listener),
		targets:   make(map[string][]Emitter),
	}
}

// Lookup returns the live node with the given ID. Retired nodes are not found.
func (net *Network) Lookup(id string) (*Node, bool) {
	return net.nodes.Get(id)
}

// Nodes returns every live node, root included, in creation order.
func (net *Network) Nodes() []*Node {
	nodes := net.nodes.Values()
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].seq < nodes[j].seq
	})
	return nodes
}

// Len returns the number of live nodes, root included.
func (net *Network) Len() int {
	return net.nodes.Len()
}

// Logger returns the network logger.
func (net *Network) Logger() *slog.Logger {
	return net.logger
}

// report forwards a dispatch problem to the error handler and records the
// first one on the dispatch for the trace span.
func (net *Network) report(stats *dispatchStats, err error) {
	if stats != nil && stats.err == nil {
		stats.err = err
	}
	if net.cfg.errorHandler != nil {
		net.cfg.errorHandler(err)
	}
}

// rejectEdge logs and counts a failed PropagateTo and returns err.
func (net *Network) rejectEdge(source, event, target string, err error) error {
	observability.LogEdgeRejected(net.logger, source, event, target, err)
	net.metrics.RecordEdge(context.Background(), observability.EdgeRejected, 1)
	return err
}
