// Package registry provides a generic thread-safe registry for values indexed by key.
//
// eventmodel uses it as the per-network index of live nodes, so that nodes can
// be found by ID when restoring a topology snapshot:
//
//	nodes := registry.New[string, *Node]()
//	if !nodes.RegisterNew(node.ID(), node) {
//	    panic("duplicate node ID")
//	}
//
//	n, ok := nodes.Get("document")
//
// All Registry methods are safe for concurrent use. Values returns a snapshot,
// so callers may register or delete while iterating the result.
package registry
