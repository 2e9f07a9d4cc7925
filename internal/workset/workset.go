// Package workset implements the coalesced-map worklist form used by the
// inter-procedural Andersen mode: instead of a FIFO of (node, pts) pairs
// that can carry the same node many times, pending points-to deltas for the
// same node are merged into the node's existing pending entry, so a node
// with a hot mailbox is drained once per round instead of once per push.
package workset

import "github.com/irssa/ptranalysis/ptset"

// Map is a worklist keyed by node id, coalescing repeated pushes to the same
// key by unioning their point-to sets.
type Map struct {
	pending map[int]*ptset.Set
}

// New returns an empty worklist.
func New() *Map {
	return &Map{pending: make(map[int]*ptset.Set)}
}

// Push merges pts into node's pending entry, creating one if absent.
func (m *Map) Push(node int, pts *ptset.Set) {
	if existing, ok := m.pending[node]; ok {
		existing.UnionWith(pts)
		return
	}
	m.pending[node] = pts.Clone()
}

// Empty reports whether the worklist has no pending entries.
func (m *Map) Empty() bool { return len(m.pending) == 0 }

// Pop removes and returns an arbitrary pending (node, pts) pair. Map
// iteration order in Go is randomized, which matches the original's use of
// an unordered map's begin() iterator: any order is a valid schedule for a
// monotone fixed-point computation.
func (m *Map) Pop() (int, *ptset.Set) {
	for node, pts := range m.pending {
		delete(m.pending, node)
		return node, pts
	}
	panic("workset: Pop on empty Map")
}
