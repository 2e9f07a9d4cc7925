package steensgaard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irssa/ptranalysis/ir/parse"
	"github.com/irssa/ptranalysis/steensgaard"
)

func TestUnification_PhiMerge(t *testing.T) {
	// p = phi(A1, A2) => find(p) == find(A1) == find(A2)
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %A2 = alloca
  %p = phi [%A1, entry], [%A2, entry]
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res := steensgaard.Analyze(mod)
	fn := mod.FuncByName("f")
	a1 := fn.Blocks[0].Instrs[0]
	a2 := fn.Blocks[0].Instrs[1]
	p := fn.Blocks[0].Instrs[2]

	require.True(t, res.Aliases(p, a1))
	require.True(t, res.Aliases(p, a2))
	require.True(t, res.Aliases(a1, a2))
}

func TestSeedSoundness(t *testing.T) {
	// For every alloca A: find(A) == find(points2[A]).
	src := `
func f() -> void {
entry:
  %A1 = alloca
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res := steensgaard.Analyze(mod)
	fn := mod.FuncByName("f")
	a1 := fn.Blocks[0].Instrs[0]

	group := res.PointsToGroup(a1)
	require.Contains(t, group, a1.ID())
}

func TestLoadStoreUnification(t *testing.T) {
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %A2 = alloca
  store %A2 -> %A1
  %y = load %A1
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res := steensgaard.Analyze(mod)
	fn := mod.FuncByName("f")
	a2 := fn.Blocks[0].Instrs[1]
	y := fn.Blocks[0].Instrs[3]

	require.True(t, res.Aliases(a2, y))
}

func TestIdempotence(t *testing.T) {
	src := `
func f(a) -> ptr {
entry:
  %A1 = alloca
  %A2 = alloca
  %p = phi [%A1, entry], [%A2, entry]
  %c = cast %p
  ret %c
}
`
	mod1, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)
	mod2, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res1 := steensgaard.Analyze(mod1)
	res2 := steensgaard.Analyze(mod2)

	fn1 := mod1.FuncByName("f")
	fn2 := mod2.FuncByName("f")

	a1x, a2x, px := fn1.Blocks[0].Instrs[0], fn1.Blocks[0].Instrs[1], fn1.Blocks[0].Instrs[2]
	a1y, a2y, py := fn2.Blocks[0].Instrs[0], fn2.Blocks[0].Instrs[1], fn2.Blocks[0].Instrs[2]

	require.Equal(t, res1.Aliases(px, a1x), res2.Aliases(py, a1y))
	require.Equal(t, res1.Aliases(px, a2x), res2.Aliases(py, a2y))
}
