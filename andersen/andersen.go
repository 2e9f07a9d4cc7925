// Package andersen implements Andersen-style, inclusion-based pointer
// analysis over the ir package's low-level SSA IR.
//
// Every mode (Intra, Inter, Parallel) shares the same constraint-generation
// and worklist-propagation core; they differ only in what unit of the
// program gets its own points-to store (one function at a time, or the
// whole reachable call graph at once) and in how work is scheduled.
//
// Abstract objects are allocation sites: an Alloca or a GEP instruction
// stands for the (unbounded) set of concrete memory objects it may create
// at runtime. GEP is treated as its own object generator rather than as a
// field-sensitive projection of its base, which keeps the analysis
// field-insensitive but still lets a struct's fields alias independent
// storage locations when the IR gives each field access its own gep.
package andersen

import (
	"github.com/irssa/ptranalysis/internal/irutil"
	"github.com/irssa/ptranalysis/ir"
)

func isPointerLike(v ir.Value) bool { return irutil.IsPointerLike(v) }
