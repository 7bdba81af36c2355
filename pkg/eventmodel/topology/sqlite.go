package topology

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists topologies to SQLite.
// It is suitable for single-process use, such as the emgraph CLI.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (or creates) a SQLite topology store.
// The path should be a file path (e.g., "./topologies.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS topologies (
			name TEXT PRIMARY KEY,
			sequence INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			data BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(name string, t Topology) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode topology: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO topologies (name, sequence, saved_at, node_count, edge_count, data)
		VALUES (
			?,
			COALESCE((SELECT MAX(sequence) FROM topologies), 0) + 1,
			?, ?, ?, ?
		)
		ON CONFLICT(name) DO UPDATE SET
			sequence = (SELECT MAX(sequence) FROM topologies) + 1,
			saved_at = excluded.saved_at,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			data = excluded.data
	`, name, time.Now().UTC().Format(time.RFC3339Nano), len(t.Nodes), len(t.Edges), data)
	if err != nil {
		return fmt.Errorf("save topology: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(name string) (Topology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Topology{}, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM topologies WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Topology{}, ErrNotFound
	}
	if err != nil {
		return Topology{}, fmt.Errorf("load topology: %w", err)
	}

	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return Topology{}, fmt.Errorf("decode topology: %w", err)
	}
	return t, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, node_count, edge_count, saved_at
		FROM topologies
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("list topologies: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var savedAt string
		if err := rows.Scan(&info.Name, &info.Nodes, &info.Edges, &savedAt); err != nil {
			return nil, fmt.Errorf("scan topology info: %w", err)
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topologies: %w", err)
	}
	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM topologies WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete topology: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
