package eventmodel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	net := quietNetwork()
	n := nodes(net, "a", "b", "c")
	a, b, c := n[0], n[1], n[2]

	require.NoError(t, a.PropagateTo("x", b))
	require.NoError(t, a.PropagateTo(Wildcard, c))
	require.NoError(t, b.PropagateTo("y", c))

	snap := net.Snapshot()

	require.Len(t, snap.Nodes, 4)
	assert.Equal(t, topology.NodeInfo{ID: "root", Name: "root", Root: true}, snap.Nodes[0])
	assert.Equal(t, topology.NodeInfo{ID: "a", Name: "a"}, snap.Nodes[1])
	assert.Equal(t, []topology.Edge{
		{Source: "a", Event: "x", Target: "b"},
		{Source: "a", Event: Wildcard, Target: "c"},
		{Source: "b", Event: "y", Target: "c"},
	}, snap.Edges)
	assert.False(t, snap.TakenAt.IsZero())
	assert.NoError(t, snap.Validate())
}

func TestBuild_RoundTrip(t *testing.T) {
	net := quietNetwork()
	n := nodes(net, "a", "b", "c")
	require.NoError(t, n[0].PropagateTo("x", n[1]))
	require.NoError(t, n[1].PropagateTo(Wildcard, n[2]))

	snap := net.Snapshot()
	rebuilt, err := Build(snap, WithLogger(net.Logger()))
	require.NoError(t, err)

	again := rebuilt.Snapshot()
	assert.Equal(t, snap.Nodes, again.Nodes)
	assert.Equal(t, snap.Edges, again.Edges)

	a, ok := rebuilt.Lookup("a")
	require.True(t, ok)
	c, ok := rebuilt.Lookup("c")
	require.True(t, ok)

	reached := false
	c.On("x", func(Context, ...any) { reached = true })
	a.Trigger("x")
	assert.True(t, reached)
}

func TestBuild_FromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - id: doc
    name: Document
  - id: editor
  - id: status
edges:
  - source: doc
    event: saved
    target: editor
  - source: editor
    event: "*"
    target: status
`), 0o600))

	topo, err := topology.Load(path)
	require.NoError(t, err)

	net, err := Build(topo, WithLogger(quietNetwork().Logger()))
	require.NoError(t, err)

	doc, ok := net.Lookup("doc")
	require.True(t, ok)
	assert.Equal(t, "Document", doc.Name())
	assert.Equal(t, []string{"editor", "status"}, ids(doc.AllPropagationTargets("saved")))
}

func TestRestore_RejectsCycles(t *testing.T) {
	topo := topology.Topology{
		Nodes: []topology.NodeInfo{{ID: "a"}, {ID: "b"}},
		Edges: []topology.Edge{
			{Source: "a", Event: "x", Target: "b"},
			{Source: "b", Event: "y", Target: "a"},
		},
	}

	net, err := Build(topo, WithLogger(quietNetwork().Logger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "b -[y]-> a")

	a, _ := net.Lookup("a")
	assert.Equal(t, []string{"b"}, ids(a.DirectPropagationTargets()), "valid edges are kept")
}

func TestRestore_InvalidTopology(t *testing.T) {
	net := quietNetwork()
	err := net.Restore(topology.Topology{
		Nodes: []topology.NodeInfo{{ID: "a"}},
		Edges: []topology.Edge{{Source: "a", Event: "x", Target: "ghost"}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, topology.ErrUnknownNode))
	assert.Equal(t, 1, net.Len(), "nothing created")
}

func TestRestore_ReusesExistingNodes(t *testing.T) {
	net := quietNetwork()
	existing := net.NewNode("a", WithID("a"))

	err := net.Restore(topology.Topology{
		Nodes: []topology.NodeInfo{{ID: "root", Root: true}, {ID: "a"}, {ID: "b"}},
		Edges: []topology.Edge{{Source: "a", Event: "e", Target: "b"}},
	})
	require.NoError(t, err)

	found, _ := net.Lookup("a")
	assert.Same(t, existing, found)
	assert.Equal(t, 3, net.Len())
	assert.Equal(t, []string{"b"}, ids(existing.DirectPropagationTargets("e")))
}

func TestSnapshot_Store(t *testing.T) {
	net := quietNetwork()
	n := nodes(net, "a", "b")
	require.NoError(t, n[0].PropagateTo("e", n[1]))

	store := topology.NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Save("main", net.Snapshot()))
	loaded, err := store.Load("main")
	require.NoError(t, err)

	rebuilt, err := Build(loaded, WithLogger(net.Logger()))
	require.NoError(t, err)
	a, _ := rebuilt.Lookup("a")
	assert.Equal(t, []string{"b"}, ids(a.DirectPropagationTargets()))
}
