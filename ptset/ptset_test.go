package ptset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irssa/ptranalysis/ptset"
)

func TestInsertHasLen(t *testing.T) {
	s := ptset.New()
	require.True(t, s.IsEmpty())
	require.True(t, s.Insert(1))
	require.False(t, s.Insert(1))
	require.True(t, s.Has(1))
	require.False(t, s.Has(2))
	require.Equal(t, 1, s.Len())
}

func TestUnionWith(t *testing.T) {
	a := ptset.New(1, 2)
	b := ptset.New(2, 3)
	require.True(t, a.UnionWith(b))
	require.ElementsMatch(t, []int{1, 2, 3}, a.Elems())
	require.False(t, a.UnionWith(b), "union with an already-subsumed set changes nothing")
}

func TestDifference(t *testing.T) {
	a := ptset.New(1, 2, 3)
	b := ptset.New(2)
	d := ptset.Difference(a, b)
	require.ElementsMatch(t, []int{1, 3}, d.Elems())
	require.ElementsMatch(t, []int{1, 2, 3}, a.Elems(), "difference must not mutate its arguments")
}

func TestClone(t *testing.T) {
	a := ptset.New(1)
	c := a.Clone()
	c.Insert(2)
	require.False(t, a.Has(2), "clone must be independent of the original")
}
