package andersen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irssa/ptranalysis/andersen"
	"github.com/irssa/ptranalysis/ir/parse"
)

func TestIntra_DirectAlias(t *testing.T) {
	// A1 = alloca; p = A1; q = p; store X into q; X = alloca A2
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %p = cast %A1
  %q = cast %p
  %A2 = alloca
  store %A2 -> %q
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	results := andersen.Intra(mod)
	fn := mod.FuncByName("f")
	r := results[fn]
	require.NotNil(t, r)

	a1 := fn.Blocks[0].Instrs[0]
	p := fn.Blocks[0].Instrs[1]
	q := fn.Blocks[0].Instrs[2]
	a2 := fn.Blocks[0].Instrs[3]

	require.ElementsMatch(t, []int{a1.ID()}, r.PointsTo(p).Elems())
	require.ElementsMatch(t, []int{a1.ID()}, r.PointsTo(q).Elems())
	require.ElementsMatch(t, []int{a2.ID()}, r.PointsTo(a2).Elems())
	require.Contains(t, r.PointsTo(a1).Elems(), a2.ID())
}

func TestIntra_PhiMerge(t *testing.T) {
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

	fn := mod.FuncByName("f")
	r := andersen.Intra(mod)[fn]

	a1 := fn.Blocks[0].Instrs[0]
	a2 := fn.Blocks[0].Instrs[1]
	p := fn.Blocks[0].Instrs[2]

	require.ElementsMatch(t, []int{a1.ID(), a2.ID()}, r.PointsTo(p).Elems())
}

func TestIntra_LoadStore(t *testing.T) {
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

	fn := mod.FuncByName("f")
	r := andersen.Intra(mod)[fn]

	a1 := fn.Blocks[0].Instrs[0]
	a2 := fn.Blocks[0].Instrs[1]
	y := fn.Blocks[0].Instrs[3]

	require.Contains(t, r.PointsTo(a1).Elems(), a2.ID())
	require.Contains(t, r.PointsTo(y).Elems(), a2.ID())
}

func TestIntra_AllocaAndGEPSeeds(t *testing.T) {
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %G1 = gep %A1
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	fn := mod.FuncByName("f")
	r := andersen.Intra(mod)[fn]

	a1 := fn.Blocks[0].Instrs[0]
	g1 := fn.Blocks[0].Instrs[1]

	require.Contains(t, r.PointsTo(a1).Elems(), a1.ID())
	require.Contains(t, r.PointsTo(g1).Elems(), g1.ID())
}

func TestInter_ParameterAndReturnFlow(t *testing.T) {
	// main calls f(&A1), f(q) stores &A2 into q.
	src := `
func f(q) -> void {
entry:
  %A2 = alloca
  store %A2 -> %q
}

func main() -> void {
entry:
  %A1 = alloca
  %c = call @f(%A1)
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res, err := andersen.Inter(mod, "main")
	require.NoError(t, err)

	main := mod.FuncByName("main")
	a1 := main.Blocks[0].Instrs[0]

	f := mod.FuncByName("f")
	a2 := f.Blocks[0].Instrs[0]

	require.Contains(t, res.PointsTo(a1).Elems(), a2.ID())

	require.Equal(t, 1, res.CallGraph.Edges().Len())
	require.Equal(t, "main -> f", res.CallGraphString())
}

func TestInter_UnreachableFunctionIsolated(t *testing.T) {
	src := `
func g() -> void {
entry:
  %A3 = alloca
}

func main() -> void {
entry:
  %A1 = alloca
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	res, err := andersen.Inter(mod, "main")
	require.NoError(t, err)

	g := mod.FuncByName("g")
	require.False(t, res.Reaches(g))

	a3 := g.Blocks[0].Instrs[0]
	require.True(t, res.PointsTo(a3).IsEmpty())
}

func TestInter_MissingEntryPoint(t *testing.T) {
	src := `
func g() -> void {
entry:
  %A1 = alloca
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	_, err = andersen.Inter(mod, "main")
	require.Error(t, err)
	require.IsType(t, &andersen.ErrNoEntryPoint{}, err)
}

func TestParallel_MatchesIntra(t *testing.T) {
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %A2 = alloca
  %p = phi [%A1, entry], [%A2, entry]
}

func h() -> void {
entry:
  %B1 = alloca
  %B2 = alloca
  store %B2 -> %B1
  %y = load %B1
}
`
	mod, err := parse.Parse(strings.NewReader(src))
	require.NoError(t, err)

	intraRes := andersen.Intra(mod)
	parRes := andersen.Parallel(mod, 4)
	require.Len(t, parRes.PerFunction, len(intraRes))

	for fn, intraFnRes := range intraRes {
		parFnRes, ok := parRes.PerFunction[fn]
		require.True(t, ok)
		require.Equal(t, intraFnRes.String(), parFnRes.String())
	}
}
