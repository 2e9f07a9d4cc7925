// Package irutil holds the handful of ir.Module queries both andersen and
// steensgaard need before they ever start building their own per-analysis
// state (points-to sets, the disjoint-set forest).
package irutil

import "github.com/irssa/ptranalysis/ir"

// IsPointerLike reports whether v can hold a pointer value the analyses
// track: an instruction or a formal argument. Constants (including the
// fallback constant ir/parse synthesizes for an unresolved operand token)
// are deliberately excluded, since they are never abstract object
// generators.
func IsPointerLike(v ir.Value) bool {
	return v != nil && (v.IsInstruction() || v.IsArgument())
}

// BuildRegistry indexes every instruction and formal argument in mod by its
// dense id, so a node id (the only thing a worklist entry or a disjoint-set
// key ever carries) can be resolved back to the ir.Value it names.
func BuildRegistry(mod *ir.Module) map[int]ir.Value {
	reg := make(map[int]ir.Value)
	for _, fn := range mod.Functions {
		for _, p := range fn.Params {
			reg[p.ID()] = p
		}
		for _, bb := range fn.Blocks {
			for _, insn := range bb.Instrs {
				reg[insn.ID()] = insn
			}
		}
	}
	return reg
}
