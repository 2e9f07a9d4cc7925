package andersen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/irssa/ptranalysis/ir"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// InterResult is the result of Inter mode: one shared points-to store over
// every function reachable from the entry point, plus the call graph
// discovered while reaching them.
type InterResult struct {
	*Result
	CallGraph *simple.DirectedGraph
	nodeOf    map[*ir.Function]graph.Node
	fnOf      map[int64]*ir.Function
}

// ErrNoEntryPoint is returned by Inter when mod has no function named Entry.
type ErrNoEntryPoint struct{ Entry string }

func (e *ErrNoEntryPoint) Error() string {
	return fmt.Sprintf("cannot find entry function %q", e.Entry)
}

// Inter runs Andersen's analysis over every function transitively reachable
// from the function named entry (conventionally "main"), sharing a single
// pointer flow graph and points-to store across the whole reachable set so
// a pointer that crosses a call boundary resolves consistently everywhere
// it is used. Unlike Intra and Parallel, a function is only ever visited
// once its reachability from entry has been established: a helper defined
// in the module but never called from entry contributes no constraints and
// never appears in the result.
func Inter(mod *ir.Module, entry string) (*InterResult, error) {
	main := mod.FuncByName(entry)
	if main == nil {
		return nil, &ErrNoEntryPoint{Entry: entry}
	}

	reg := buildRegistry(mod)
	c := newCore(mod, reg)
	wl := newMapWorklist()

	cg := simple.NewDirectedGraph()
	nodeOf := make(map[*ir.Function]graph.Node)
	fnOf := make(map[int64]*ir.Function)
	nodeFor := func(fn *ir.Function) graph.Node {
		if n, ok := nodeOf[fn]; ok {
			return n
		}
		n := cg.NewNode()
		cg.AddNode(n)
		nodeOf[fn] = n
		fnOf[n.ID()] = fn
		return n
	}

	visited := make(map[*ir.Function]bool)
	var addReachable func(fn *ir.Function)
	addReachable = func(fn *ir.Function) {
		if visited[fn] {
			return
		}
		visited[fn] = true
		nodeFor(fn)
		initializeFunction(c, wl, fn, func(callee *ir.Function) {
			// simple.DirectedGraph panics on a self edge, so a call from a
			// function to itself is not recorded in the call graph.
			if callee != fn {
				cg.SetEdge(cg.NewEdge(nodeFor(fn), nodeFor(callee)))
			}
			addReachable(callee)
		})
	}
	addReachable(main)
	solve(c, wl)

	return &InterResult{Result: newResult(c), CallGraph: cg, nodeOf: nodeOf, fnOf: fnOf}, nil
}

// Reaches reports whether fn was determined to be reachable from the entry
// point of the run that produced r.
func (r *InterResult) Reaches(fn *ir.Function) bool {
	_, ok := r.nodeOf[fn]
	return ok
}

// CallGraphString renders the discovered call graph as one "caller -> callee"
// line per edge, sorted for stable output.
func (r *InterResult) CallGraphString() string {
	edges := r.CallGraph.Edges()
	lines := make([]string, 0, r.CallGraph.Edges().Len())
	for edges.Next() {
		e := edges.Edge()
		caller, callee := r.fnOf[e.From().ID()], r.fnOf[e.To().ID()]
		lines = append(lines, fmt.Sprintf("%s -> %s", caller.Name(), callee.Name()))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
