package steensgaard

import "github.com/irssa/ptranalysis/ir"

// Analyze runs Steensgaard's analysis over every defined function in mod,
// sharing one alias forest across the whole module: a formal argument
// unified with an actual argument at one call site stays unified for every
// other use of that function throughout the module, which is what lets the
// analysis scale by giving up the ability to distinguish call sites.
func Analyze(mod *ir.Module) *Result {
	reg := buildRegistry(mod)
	u := newUnifier()

	for _, fn := range mod.Functions {
		if fn.IsDeclaration() {
			continue
		}
		for _, bb := range fn.Blocks {
			for _, insn := range bb.Instrs {
				u.visit(insn)
			}
		}
	}

	return &Result{reg: reg, forest: u.forest, points2: u.points2}
}
