// Package ptset provides the compact points-to set representation shared by
// every mode of Andersen's analysis: a set of dense integer object ids
// backed by [intsets.Sparse], the same representation the deprecated
// golang.org/x/tools/go/pointer package used for the same purpose.
//
// Objects are identified by their generating ir.Value's ID(), never by Go
// pointer identity, so that the set survives being copied between the
// worklist and the per-object pt map without pinning ir.Value memory.
package ptset

import "golang.org/x/tools/container/intsets"

// Set is an immutable-by-convention set of object ids. Callers that need to
// grow a set in place should do so via Insert/UnionWith on a set they own;
// Difference and Clone never mutate their receivers.
type Set struct {
	sparse intsets.Sparse
}

// New returns an empty set, optionally seeded with ids.
func New(ids ...int) *Set {
	s := &Set{}
	for _, id := range ids {
		s.sparse.Insert(id)
	}
	return s
}

// Insert adds id to s, reporting whether it was not already present.
func (s *Set) Insert(id int) bool { return s.sparse.Insert(id) }

// Has reports whether id is a member of s.
func (s *Set) Has(id int) bool { return s.sparse.Has(id) }

// Len reports the number of elements in s.
func (s *Set) Len() int { return s.sparse.Len() }

// IsEmpty reports whether s has no elements.
func (s *Set) IsEmpty() bool { return s.sparse.IsEmpty() }

// Elems returns the elements of s in ascending order.
func (s *Set) Elems() []int { return s.sparse.AppendTo(nil) }

// UnionWith adds every element of other to s, reporting whether s changed.
func (s *Set) UnionWith(other *Set) bool { return s.sparse.UnionWith(&other.sparse) }

// Clone returns a copy of s.
func (s *Set) Clone() *Set {
	c := &Set{}
	c.sparse.Copy(&s.sparse)
	return c
}

// String renders s as e.g. "{1 2 3}".
func (s *Set) String() string { return s.sparse.String() }

// Difference returns the elements present in a but not in b. Neither
// argument is mutated.
func Difference(a, b *Set) *Set {
	d := &Set{}
	d.sparse.Difference(&a.sparse, &b.sparse)
	return d
}
