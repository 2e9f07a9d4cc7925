package andersen

import (
	"github.com/irssa/ptranalysis/internal/irutil"
	"github.com/irssa/ptranalysis/internal/workset"
	"github.com/irssa/ptranalysis/ir"
	"github.com/irssa/ptranalysis/ptset"
)

// core is the pointer flow graph plus points-to store shared by every mode.
// One core is created per unit of analysis: one per function for Intra and
// Parallel, one for the entire reachable call graph for Inter.
type core struct {
	mod *ir.Module
	reg map[int]ir.Value // node id -> the value it names

	pt  map[int]*ptset.Set // pt[n]: current points-to set of n
	pfg map[int]*ptset.Set // pfg[s]: successors of s in the pointer flow graph
}

func newCore(mod *ir.Module, reg map[int]ir.Value) *core {
	return &core{
		mod: mod,
		reg: reg,
		pt:  make(map[int]*ptset.Set),
		pfg: make(map[int]*ptset.Set),
	}
}

func (c *core) ptOf(n int) *ptset.Set {
	s, ok := c.pt[n]
	if !ok {
		s = ptset.New()
		c.pt[n] = s
	}
	return s
}

func (c *core) pfgOf(n int) *ptset.Set {
	s, ok := c.pfg[n]
	if !ok {
		s = ptset.New()
		c.pfg[n] = s
	}
	return s
}

// buildRegistry indexes every instruction and formal argument in mod by its
// dense id, so a worklist entry (which only ever carries an id) can be
// resolved back to the ir.Value it names.
func buildRegistry(mod *ir.Module) map[int]ir.Value { return irutil.BuildRegistry(mod) }

// worklist abstracts over the two scheduling disciplines used by the three
// modes: a plain FIFO (Intra, Parallel — one queue per function, so
// duplicate node entries never pile up across unrelated functions) and a
// coalesced map keyed by node (Inter — the call graph is large enough that
// coalescing repeat pushes to the same node materially cuts total work).
type worklist interface {
	push(node int, pts *ptset.Set)
	empty() bool
	pop() (int, *ptset.Set)
}

type workItem struct {
	node int
	pts  *ptset.Set
}

// queueWorklist is a plain FIFO of pending propagations: one queueWorklist
// per function for Intra and Parallel, so node ids from unrelated functions
// never mix in the same backlog.
type queueWorklist struct{ pending []workItem }

func newQueueWorklist() *queueWorklist { return &queueWorklist{} }

func (w *queueWorklist) push(node int, pts *ptset.Set) {
	w.pending = append(w.pending, workItem{node, pts})
}

func (w *queueWorklist) empty() bool { return len(w.pending) == 0 }

func (w *queueWorklist) pop() (int, *ptset.Set) {
	it := w.pending[0]
	w.pending = w.pending[1:]
	return it.node, it.pts
}

type mapWorklist struct{ m *workset.Map }

func newMapWorklist() *mapWorklist { return &mapWorklist{m: workset.New()} }

func (w *mapWorklist) push(node int, pts *ptset.Set) { w.m.Push(node, pts) }
func (w *mapWorklist) empty() bool                   { return w.m.Empty() }
func (w *mapWorklist) pop() (int, *ptset.Set)        { return w.m.Pop() }

// addEdge adds a pointer-flow-graph edge s -> t if it is not already
// present, and schedules propagation of s's current points-to set along the
// new edge if s already points anywhere.
func addEdge(c *core, wl worklist, s, t int) {
	if c.pfgOf(s).Insert(t) {
		if pts := c.ptOf(s); !pts.IsEmpty() {
			wl.push(t, pts)
		}
	}
}

// propagate merges delta into n's points-to set and, if that grew it,
// forwards delta along every outgoing pointer-flow-graph edge from n.
func propagate(c *core, wl worklist, n int, delta *ptset.Set) {
	if delta.IsEmpty() {
		return
	}
	c.ptOf(n).UnionWith(delta)
	for _, s := range c.pfgOf(n).Elems() {
		wl.push(s, delta)
	}
}

// initializeFunction seeds the worklist and pointer-flow-graph with the
// constraints generated by fn's instructions. It is run for every function
// in every mode: Alloca/GEP seed their own singleton object, Phi/Select/Cast
// generate direct-flow edges, and Call generates argument-to-parameter and
// return-to-callsite edges regardless of mode.
//
// onReach, when non-nil, is invoked with every function statically called
// from fn that has a body. Intra and Parallel mode pass nil: each function
// is its own analysis unit, so following a callee would just mix its
// constraints into the wrong points-to store. Inter mode passes the
// reachability-tracking hook that makes call edges actually connect
// separate functions' constraint systems.
func initializeFunction(c *core, wl worklist, fn *ir.Function, onReach func(*ir.Function)) {
	for _, bb := range fn.Blocks {
		for _, insn := range bb.Instrs {
			switch t := insn.(type) {
			case *ir.Alloca:
				wl.push(t.ID(), ptset.New(t.ID()))

			case *ir.GEP:
				wl.push(t.ID(), ptset.New(t.ID()))

			case *ir.Phi:
				for _, v := range t.Incoming {
					if isPointerLike(v) {
						addEdge(c, wl, v.ID(), t.ID())
					}
				}

			case *ir.Select:
				if isPointerLike(t.True) {
					addEdge(c, wl, t.True.ID(), t.ID())
				}
				if isPointerLike(t.False) {
					addEdge(c, wl, t.False.ID(), t.ID())
				}

			case *ir.Cast:
				addEdge(c, wl, t.Src.ID(), t.ID())

			case *ir.Call:
				initializeCall(c, wl, t, onReach)
			}
		}
	}
}

func initializeCall(c *core, wl worklist, call *ir.Call, onReach func(*ir.Function)) {
	callee := call.Callee
	if callee == nil || callee.IsDeclaration() {
		// Indirect calls and calls to declarations contribute no
		// constraints; see the open question on indirect calls.
		return
	}

	for i, arg := range call.Args {
		if i >= len(callee.Params) {
			break
		}
		addEdge(c, wl, arg.ID(), callee.Params[i].ID())
	}

	if !callee.RetType.IsVoidType() {
		for _, bb := range callee.Blocks {
			for _, insn := range bb.Instrs {
				if ret, ok := insn.(*ir.Return); ok && ret.Val != nil {
					addEdge(c, wl, ret.Val.ID(), call.ID())
				}
			}
		}
	}

	if onReach != nil {
		onReach(callee)
	}
}

// solve drains wl to a fixed point: for every (n, pts) pair, the part of pts
// not already in pt[n] is propagated to n's successors, and if n is a
// pointer operand of a load or store, new edges are opened to route the
// loaded/stored value through the newly discovered objects.
func solve(c *core, wl worklist) {
	for !wl.empty() {
		n, pts := wl.pop()

		delta := ptset.Difference(pts, c.ptOf(n))
		propagate(c, wl, n, delta)
		if delta.IsEmpty() {
			continue
		}

		v, ok := c.reg[n]
		if !ok {
			continue
		}
		for _, user := range c.mod.Users(v) {
			switch u := user.(type) {
			case *ir.Store:
				if u.Ptr != v {
					continue
				}
				if y := u.Val; isPointerLike(y) {
					for _, oid := range delta.Elems() {
						addEdge(c, wl, y.ID(), oid)
					}
				}

			case *ir.Load:
				if u.Ptr != v {
					continue
				}
				for _, oid := range delta.Elems() {
					addEdge(c, wl, oid, u.ID())
				}
			}
		}
	}
}
