package topology_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/randalmurphal/eventmodel/pkg/eventmodel/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "topologies.db")

	store1, err := topology.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save("main", sample(topology.Edge{Source: "a", Event: "e", Target: "b"})))
	require.NoError(t, store1.Close())

	// Reopen the database
	store2, err := topology.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.Load("main")
	require.NoError(t, err)
	assert.Equal(t, []topology.Edge{{Source: "a", Event: "e", Target: "b"}}, loaded.Edges)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := topology.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := topology.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	store, err := topology.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	const numGoroutines = 20
	const numOps = 10

	var wg sync.WaitGroup
	errCh := make(chan error, numGoroutines*numOps)
	for g := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range numOps {
				name := fmt.Sprintf("g%d-%d", g, i)
				if err := store.Save(name, sample()); err != nil {
					errCh <- err
					continue
				}
				if _, err := store.Load(name); err != nil {
					errCh <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent operation failed: %v", err)
	}

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, numGoroutines*numOps)
}
