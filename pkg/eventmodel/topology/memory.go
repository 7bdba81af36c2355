package topology

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory topology store for tests and short-lived tools.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedTopology
	seq    int
	closed bool
}

type storedTopology struct {
	topology Topology
	savedAt  time.Time
	seq      int
}

// NewMemoryStore creates a new in-memory topology store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedTopology),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(name string, t Topology) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.seq++
	m.data[name] = storedTopology{
		topology: clone(t),
		savedAt:  time.Now().UTC(),
		seq:      m.seq,
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (Topology, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Topology{}, ErrStoreClosed
	}

	st, ok := m.data[name]
	if !ok {
		return Topology{}, ErrNotFound
	}
	return clone(st.topology), nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	type entry struct {
		info Info
		seq  int
	}
	entries := make([]entry, 0, len(m.data))
	for name, st := range m.data {
		entries = append(entries, entry{
			info: Info{
				Name:    name,
				Nodes:   len(st.topology.Nodes),
				Edges:   len(st.topology.Edges),
				SavedAt: st.savedAt,
			},
			seq: st.seq,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	infos := make([]Info, len(entries))
	for i, e := range entries {
		infos[i] = e.info
	}
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored topologies.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// clone copies the slices so callers can't mutate stored data.
func clone(t Topology) Topology {
	out := Topology{TakenAt: t.TakenAt}
	if t.Nodes != nil {
		out.Nodes = append([]NodeInfo(nil), t.Nodes...)
	}
	if t.Edges != nil {
		out.Edges = append([]Edge(nil), t.Edges...)
	}
	return out
}
