package andersen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/irssa/ptranalysis/ir"
	"github.com/irssa/ptranalysis/ptset"
)

// Result is the points-to solution produced by one analysis run. It answers
// "what may v point to" for any value that was part of the analyzed unit;
// values outside it (e.g. from an unreached function in Inter mode) simply
// have an empty points-to set.
type Result struct {
	reg map[int]ir.Value
	pt  map[int]*ptset.Set
}

func newResult(c *core) *Result {
	return &Result{reg: c.reg, pt: c.pt}
}

// PointsTo returns the set of objects v may point to. The returned set must
// not be mutated.
func (r *Result) PointsTo(v ir.Value) *ptset.Set {
	if s, ok := r.pt[v.ID()]; ok {
		return s
	}
	return ptset.New()
}

// Value resolves a dense id back to the value it names, or nil if the
// analysis never saw it.
func (r *Result) Value(id int) ir.Value { return r.reg[id] }

// String renders the points-to set of every node with a non-empty set,
// sorted by node id for deterministic output.
func (r *Result) String() string {
	var ids []int
	for id, s := range r.pt {
		if !s.IsEmpty() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	var b strings.Builder
	b.WriteString("Points-to Set:\n=================\n")
	for _, id := range ids {
		v := r.reg[id]
		if v == nil {
			continue
		}
		fmt.Fprintf(&b, "%s\n->", v.String())
		for _, oid := range r.pt[id].Elems() {
			if obj := r.reg[oid]; obj != nil {
				fmt.Fprintf(&b, "\t%s\n", obj.String())
			}
		}
	}
	return b.String()
}

// merge combines a set of per-function Results (Intra, Parallel) into one
// Result covering the whole module, for callers that want a single object
// to query regardless of mode.
func merge(results []*Result) *Result {
	reg := make(map[int]ir.Value)
	pt := make(map[int]*ptset.Set)
	for _, r := range results {
		for id, v := range r.reg {
			reg[id] = v
		}
		for id, s := range r.pt {
			if _, ok := pt[id]; !ok {
				pt[id] = ptset.New()
			}
			pt[id].UnionWith(s)
		}
	}
	return &Result{reg: reg, pt: pt}
}
