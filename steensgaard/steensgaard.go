// Package steensgaard implements Steensgaard-style, unification-based
// pointer analysis over the ir package's low-level SSA IR.
//
// Unlike andersen's inclusion-based sets, Steensgaard's analysis never grows
// a per-value points-to set incrementally: it merges (unifies) the abstract
// "location" a pointer may refer to with every other location it is ever
// observed to alias, using a disjoint-set forest. The result is coarser
// (every member of a unified group is treated as pointing to the same
// thing) but each unification is O(alpha(n)), which is why the technique
// scales to far larger programs than Andersen's analysis at the cost of
// precision.
package steensgaard

import (
	"github.com/irssa/ptranalysis/internal/irutil"
	"github.com/irssa/ptranalysis/ir"
)

func isPointerLike(v ir.Value) bool { return irutil.IsPointerLike(v) }

func buildRegistry(mod *ir.Module) map[int]ir.Value { return irutil.BuildRegistry(mod) }
