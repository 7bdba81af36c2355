package topology

import "time"

// Store persists named topology snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a topology under name, overwriting any previous one.
	Save(name string, t Topology) error

	// Load retrieves a topology.
	// Returns ErrNotFound if name doesn't exist.
	Load(name string) (Topology, error)

	// List returns metadata for every stored topology, oldest save first.
	// Returns empty slice (not error) if nothing is stored.
	List() ([]Info, error)

	// Delete removes a topology.
	// Returns nil if name doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the full topology.
type Info struct {
	Name    string
	Nodes   int
	Edges   int
	SavedAt time.Time
}
