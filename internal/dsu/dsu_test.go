package dsu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irssa/ptranalysis/internal/dsu"
)

func TestFindLazilyRoots(t *testing.T) {
	f := dsu.New[int]()
	require.False(t, f.Seen(1))
	require.Equal(t, 1, f.Find(1))
	require.True(t, f.Seen(1))
}

func TestUnionMergesSets(t *testing.T) {
	f := dsu.New[int]()
	f.Union(1, 2)
	require.True(t, f.Same(1, 2))
	require.False(t, f.Same(1, 3))

	f.Union(2, 3)
	require.True(t, f.Same(1, 3))
}

func TestUnionByRank(t *testing.T) {
	f := dsu.New[string]()
	f.Union("a", "b")
	f.Union("c", "d")
	root := f.Union("b", "c")
	require.Equal(t, root, f.Find("a"))
	require.Equal(t, root, f.Find("d"))
}

func TestMembersAndRoots(t *testing.T) {
	f := dsu.New[int]()
	f.Union(1, 2)
	f.Find(3)

	roots := f.Roots()
	require.Len(t, roots, 2)

	members := f.Members(f.Find(1))
	require.ElementsMatch(t, []int{1, 2}, members)
}
