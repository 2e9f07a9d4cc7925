package ir

// Builder assembles a Module one function/block/instruction at a time,
// allocating the dense, monotonically increasing value IDs that the
// solvers' compact set representations rely on.
//
// It is the construction API used both by ir/parse and directly by tests
// that want a module without going through the text format.
type Builder struct {
	mod    *Module
	nextID int
}

// NewBuilder starts a fresh module.
func NewBuilder() *Builder {
	return &Builder{mod: &Module{}}
}

func (b *Builder) allocID() int {
	id := b.nextID
	b.nextID++
	return id
}

// Module returns the module built so far. Call (*Module).Finalize before
// handing the result to an analysis.
func (b *Builder) Module() *Module { return b.mod }

// NewFunction declares a function. If declaration is true no blocks are
// attached and the function is treated as external (IsDeclaration() true).
func (b *Builder) NewFunction(name string, paramNames []string, retType Type, declaration bool) *Function {
	fn := &Function{name: name, RetType: retType}
	for _, pn := range paramNames {
		fn.Params = append(fn.Params, &Argument{
			val:    val{id: b.allocID(), name: pn, typ: PointerType("ptr")},
			parent: fn,
		})
	}
	b.mod.Functions = append(b.mod.Functions, fn)
	_ = declaration // declarations simply never get a block appended
	return fn
}

// NewBlock appends a new, empty basic block to fn.
func (b *Builder) NewBlock(fn *Function, name string) *BasicBlock {
	bb := &BasicBlock{Name: name, Parent: fn}
	fn.Blocks = append(fn.Blocks, bb)
	return bb
}

func (b *Builder) append(bb *BasicBlock, insn Instruction) {
	bb.Instrs = append(bb.Instrs, insn)
}

// Alloca appends an alloca instruction returning a pointer-typed value.
func (b *Builder) Alloca(bb *BasicBlock, name string) *Alloca {
	i := &Alloca{Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KAlloca, block: bb}}
	b.append(bb, i)
	return i
}

// GEP appends a getelementptr instruction computing a derived address from base.
func (b *Builder) GEP(bb *BasicBlock, name string, base Value) *GEP {
	i := &GEP{Insn: Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KGEP, block: bb}, Base: base}
	b.append(bb, i)
	return i
}

// Load appends a load through ptr.
func (b *Builder) Load(bb *BasicBlock, name string, ptr Value) *Load {
	i := &Load{Insn: Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KLoad, block: bb}, Ptr: ptr}
	b.append(bb, i)
	return i
}

// Store appends a store of val through ptr. Stores have no result value.
func (b *Builder) Store(bb *BasicBlock, ptr, val_ Value) *Store {
	i := &Store{Insn: Insn{val: val{id: b.allocID(), typ: VoidType}, kind: KStore, block: bb}, Ptr: ptr, Val: val_}
	b.append(bb, i)
	return i
}

// Phi appends a phi merging incoming.
func (b *Builder) Phi(bb *BasicBlock, name string, incoming ...Value) *Phi {
	i := &Phi{Insn: Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KPhi, block: bb}, Incoming: incoming}
	b.append(bb, i)
	return i
}

// Select appends a select instruction.
func (b *Builder) Select(bb *BasicBlock, name string, cond, t, f Value) *Select {
	i := &Select{Insn: Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KSelect, block: bb}, Cond: cond, True: t, False: f}
	b.append(bb, i)
	return i
}

// Cast appends a cast of src to a pointer-typed result.
func (b *Builder) Cast(bb *BasicBlock, name string, src Value) *Cast {
	i := &Cast{Insn: Insn{val: val{id: b.allocID(), name: name, typ: PointerType("ptr")}, kind: KCast, block: bb}, Src: src}
	b.append(bb, i)
	return i
}

// Call appends a call to callee (nil for an indirect call) with args. name
// may be empty for a void call.
func (b *Builder) Call(bb *BasicBlock, name string, callee *Function, args ...Value) *Call {
	typ := VoidType
	if callee != nil && !callee.RetType.IsVoidType() {
		typ = callee.RetType
	}
	i := &Call{Insn: Insn{val: val{id: b.allocID(), name: name, typ: typ}, kind: KCall, block: bb}, Callee: callee, Args: args}
	b.append(bb, i)
	return i
}

// Return appends a return. val may be nil for a void return.
func (b *Builder) Return(bb *BasicBlock, val_ Value) *Return {
	i := &Return{Insn: Insn{val: val{id: b.allocID(), typ: VoidType}, kind: KReturn, block: bb}, Val: val_}
	b.append(bb, i)
	return i
}

// Other appends an instruction with no modelled memory effect.
func (b *Builder) Other(bb *BasicBlock, name string, typ Type) *Other {
	i := &Other{Insn{val: val{id: b.allocID(), name: name, typ: typ}, kind: KOther, block: bb}}
	b.append(bb, i)
	return i
}

// Const returns a fresh constant value with the given textual representation.
func (b *Builder) Const(repr string, typ Type) *Const {
	return &Const{val: val{id: b.allocID(), name: repr, typ: typ}, Repr: repr}
}
