// Package topology describes the shape of an eventmodel network: which
// nodes exist and which propagation edges connect them.
//
// A Topology is produced by Network.Snapshot, consumed by Network.Restore and
// eventmodel.Build, read from wiring files (YAML or JSON) and persisted by a
// Store. It never carries events or listeners, only wiring.
package topology

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for topology validation and storage.
var (
	// ErrUnknownNode indicates an edge references a node not listed in Nodes.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode indicates two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrInvalidEdge indicates an edge with an empty field or a root endpoint.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrNotFound indicates a stored topology doesn't exist.
	ErrNotFound = errors.New("topology not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("topology store closed")
)

// NodeInfo identifies one node.
type NodeInfo struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Root bool   `json:"root,omitempty" yaml:"root,omitempty"`
}

// Edge is one propagation edge: Source forwards Event to Target.
// Event may be the wildcard "*".
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Event  string `json:"event" yaml:"event"`
	Target string `json:"target" yaml:"target"`
}

// String renders the edge as "source -[event]-> target".
func (e Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", e.Source, e.Event, e.Target)
}

// Topology is the node and edge set of a network.
type Topology struct {
	Nodes   []NodeInfo `json:"nodes" yaml:"nodes"`
	Edges   []Edge     `json:"edges,omitempty" yaml:"edges,omitempty"`
	TakenAt time.Time  `json:"taken_at,omitempty" yaml:"taken_at,omitempty"`
}

// Node returns the node with the given ID.
func (t Topology) Node(id string) (NodeInfo, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeInfo{}, false
}

// Validate checks structural consistency. It does not detect cycles; that is
// left to the network, which rejects cyclic edges when they are added.
// Multiple problems are joined together.
func (t Topology) Validate() error {
	var errs []error

	ids := make(map[string]NodeInfo, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%w: empty node id", ErrInvalidEdge))
			continue
		}
		if _, dup := ids[n.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID))
			continue
		}
		ids[n.ID] = n
	}

	for _, e := range t.Edges {
		if e.Source == "" || e.Target == "" || e.Event == "" {
			errs = append(errs, fmt.Errorf("%w: %s has an empty field", ErrInvalidEdge, e))
			continue
		}
		src, ok := ids[e.Source]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: edge source %q", ErrUnknownNode, e.Source))
		}
		dst, ok := ids[e.Target]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: edge target %q", ErrUnknownNode, e.Target))
		}
		if src.Root || dst.Root {
			errs = append(errs, fmt.Errorf("%w: %s touches the root", ErrInvalidEdge, e))
		}
	}

	return errors.Join(errs...)
}

// Load reads a topology file, detecting the format by extension.
// Supported extensions: .yaml, .yml, .json
func Load(path string) (Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Topology{}, fmt.Errorf("read topology file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Topology{}, fmt.Errorf("unsupported topology file extension: %s", ext)
	}
}

// FromYAML parses a YAML topology.
func FromYAML(data []byte) (Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Topology{}, fmt.Errorf("parse yaml: %w", err)
	}
	return t, nil
}

// FromJSON parses a JSON topology.
func FromJSON(data []byte) (Topology, error) {
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return Topology{}, fmt.Errorf("parse json: %w", err)
	}
	return t, nil
}

// YAML renders the topology as YAML.
func (t Topology) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// JSON renders the topology as indented JSON.
func (t Topology) JSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
