package steensgaard

import (
	"github.com/irssa/ptranalysis/internal/dsu"
	"github.com/irssa/ptranalysis/ir"
)

// unifier carries the two maps a Steensgaard pass over one instruction
// stream needs: the alias forest itself, and points2, which records — for a
// pointer variable that is known to point somewhere — which other variable
// represents that location. A second constraint on the same pointer unifies
// the two candidate locations instead of overwriting the first.
type unifier struct {
	forest  *dsu.Forest[int]
	points2 map[int]int
}

func newUnifier() *unifier {
	return &unifier{forest: dsu.New[int](), points2: make(map[int]int)}
}

// setsPointee records that ptr points to target, unifying target with
// whatever ptr was already known to point to.
func (u *unifier) setsPointee(ptr, target int) {
	if existing, ok := u.points2[ptr]; ok {
		u.forest.Union(existing, target)
		return
	}
	u.forest.Find(ptr)
	u.forest.Find(target)
	u.points2[ptr] = target
}

// visit applies one instruction's unification rule. Only the instruction
// kinds that move pointers around contribute constraints; everything else
// is a no-op, mirroring the andersen core's constraint generation.
func (u *unifier) visit(insn ir.Instruction) {
	switch t := insn.(type) {
	case *ir.Alloca:
		u.forest.Find(t.ID())
		u.points2[t.ID()] = t.ID()

	case *ir.Load:
		// p := *q  =>  join(*p, **q)
		u.setsPointee(t.Ptr.ID(), t.ID())

	case *ir.Store:
		// *p := q  =>  join(**p, *q)
		if isPointerLike(t.Val) {
			u.setsPointee(t.Ptr.ID(), t.Val.ID())
		}

	case *ir.Phi:
		for _, v := range t.Incoming {
			if isPointerLike(v) {
				u.forest.Union(t.ID(), v.ID())
			}
		}

	case *ir.Select:
		if isPointerLike(t.True) {
			u.forest.Union(t.True.ID(), t.ID())
		}
		if isPointerLike(t.False) {
			u.forest.Union(t.False.ID(), t.ID())
		}

	case *ir.Cast:
		u.forest.Union(t.Src.ID(), t.ID())

	case *ir.Call:
		u.visitCall(t)
	}
}

func (u *unifier) visitCall(call *ir.Call) {
	callee := call.Callee
	if callee == nil || callee.IsDeclaration() {
		return
	}
	for i, arg := range call.Args {
		if i >= len(callee.Params) {
			break
		}
		u.forest.Union(arg.ID(), callee.Params[i].ID())
	}
	if callee.RetType.IsVoidType() {
		return
	}
	for _, bb := range callee.Blocks {
		for _, insn := range bb.Instrs {
			if ret, ok := insn.(*ir.Return); ok && ret.Val != nil {
				u.forest.Union(ret.Val.ID(), call.ID())
			}
		}
	}
}
