package steensgaard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/irssa/ptranalysis/internal/dsu"
	"github.com/irssa/ptranalysis/ir"
)

// Result is the alias partition produced by one run of Analyze.
type Result struct {
	reg     map[int]ir.Value
	forest  *dsu.Forest[int]
	points2 map[int]int
}

// Aliases reports whether a and b were unified into the same alias group.
// Values never seen by the analysis are their own singleton group, so two
// such values alias only if they are the same value.
func (r *Result) Aliases(a, b ir.Value) bool {
	if !r.forest.Seen(a.ID()) || !r.forest.Seen(b.ID()) {
		return a.ID() == b.ID()
	}
	return r.forest.Same(a.ID(), b.ID())
}

// PointsToGroup returns the ids that make up the alias group v's pointee(s)
// were unified into, or nil if v was never observed to point anywhere.
func (r *Result) PointsToGroup(v ir.Value) []int {
	if !r.forest.Seen(v.ID()) {
		return nil
	}
	target, ok := r.points2[v.ID()]
	if !ok {
		return nil
	}
	return r.forest.Members(r.forest.Find(target))
}

// String renders every alias group and the group(s) its members point to,
// grouped and sorted by representative id for deterministic output.
func (r *Result) String() string {
	groups := make(map[int][]int)
	for _, root := range r.forest.Roots() {
		members := r.forest.Members(root)
		sort.Ints(members)
		groups[root] = members
	}

	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var b strings.Builder
	for _, root := range roots {
		members := groups[root]
		fmt.Fprintf(&b, "\nGroup %d: {", root)
		for _, id := range members {
			if v := r.reg[id]; v != nil {
				fmt.Fprintf(&b, "\n%s", v.String())
			}
		}
		b.WriteString("\n}\nPoints-to group(s): {")
		targets := make(map[int]bool)
		for _, id := range members {
			if t, ok := r.points2[id]; ok {
				targets[r.forest.Find(t)] = true
			}
		}
		targetIDs := make([]int, 0, len(targets))
		for t := range targets {
			targetIDs = append(targetIDs, t)
		}
		sort.Ints(targetIDs)
		for _, t := range targetIDs {
			fmt.Fprintf(&b, " %d", t)
		}
		b.WriteString(" }\n")
	}
	return b.String()
}
