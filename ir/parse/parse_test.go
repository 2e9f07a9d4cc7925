package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irssa/ptranalysis/ir"
)

func TestParse_AllocaResolvesInScope(t *testing.T) {
	// Regression test: an alloca's name must be resolvable by a later
	// instruction in the same function, not silently fall back to being
	// treated as an unrelated constant operand.
	src := `
func f() -> void {
entry:
  %A1 = alloca
  %p = cast %A1
}
`
	mod, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	fn := mod.FuncByName("f")
	require.NotNil(t, fn)
	require.Len(t, fn.Blocks, 1)
	require.Len(t, fn.Blocks[0].Instrs, 2)

	alloca, ok := fn.Blocks[0].Instrs[0].(*ir.Alloca)
	require.True(t, ok)

	cast, ok := fn.Blocks[0].Instrs[1].(*ir.Cast)
	require.True(t, ok)
	require.Same(t, alloca, cast.Src, "cast operand should resolve to the actual alloca instruction, not a synthesized constant")
}

func TestParse_PhiLoopBackForwardReference(t *testing.T) {
	// A phi may reference a value defined later in the same function (its
	// loop-back edge); this only works if named results are registered into
	// scope immediately at shell-creation time rather than after their
	// operands resolve.
	src := `
func f() -> void {
entry:
  %p = phi [%A1, entry], [%A2, entry]
  %A1 = alloca
  %A2 = alloca
}
`
	mod, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	fn := mod.FuncByName("f")
	phi, ok := fn.Blocks[0].Instrs[0].(*ir.Phi)
	require.True(t, ok)
	require.Len(t, phi.Incoming, 2)

	a1 := fn.Blocks[0].Instrs[1]
	a2 := fn.Blocks[0].Instrs[2]
	require.Same(t, a1, phi.Incoming[0])
	require.Same(t, a2, phi.Incoming[1])
}

func TestParse_Signatures(t *testing.T) {
	src := `
declare func ext(a, b) -> ptr

func caller(x) -> void {
entry:
  %r = call @ext(%x, %x)
  ret
}
`
	mod, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	ext := mod.FuncByName("ext")
	require.NotNil(t, ext)
	require.True(t, ext.IsDeclaration())
	require.Len(t, ext.Params, 2)

	caller := mod.FuncByName("caller")
	require.NotNil(t, caller)
	require.False(t, caller.IsDeclaration())

	call, ok := caller.Blocks[0].Instrs[0].(*ir.Call)
	require.True(t, ok)
	require.Same(t, ext, call.Callee)
	require.Len(t, call.Args, 2)
}

func TestParse_MalformedSignatureReportsLine(t *testing.T) {
	src := "func broken(\n"
	_, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, 1, perr.Line)
}
