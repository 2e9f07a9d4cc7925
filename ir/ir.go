// Package ir defines the view that the pointer analyses in this module are
// written against: functions, basic blocks, instructions and their operands.
//
// The package intentionally knows nothing about how a module was produced.
// Parsing and validating an on-disk IR file is the job of [ir/parse]; ir
// itself only exposes the shapes that andersen and steensgaard need to walk.
package ir

// Type is a minimal type discriminator. The analyses only ever need to know
// whether a value is pointer-typed or void; everything else about a type is
// opaque to them.
type Type struct {
	name    string
	pointer bool
	void    bool
}

func (t Type) String() string      { return t.name }
func (t Type) IsPointerType() bool { return t.pointer }
func (t Type) IsVoidType() bool    { return t.void }

// VoidType is the type of instructions with no result (Store, Return, ...).
var VoidType = Type{name: "void", void: true}

// PointerType returns the pointer type with the given display name.
func PointerType(name string) Type { return Type{name: name, pointer: true} }

// ValueType returns a non-pointer, non-void type with the given display name.
func ValueType(name string) Type { return Type{name: name} }

// Value is any operand that can flow through the pointer analyses: an
// instruction result, a formal argument, or a constant.
//
// Identity is by Go pointer (every constructor in this package returns a
// freshly allocated value), which is stable for the lifetime of the module.
// ID additionally exposes a dense, module-wide integer handle so that
// solvers can key compact structures (e.g. intsets.Sparse) off it instead of
// hashing interface values.
type Value interface {
	ID() int
	Name() string
	Type() Type
	IsInstruction() bool
	IsArgument() bool
	String() string
}

// val is embedded by every concrete Value to provide the common fields and
// the non-instruction, non-argument defaults.
type val struct {
	id   int
	name string
	typ  Type
}

func (v *val) ID() int             { return v.id }
func (v *val) Name() string        { return v.name }
func (v *val) Type() Type          { return v.typ }
func (v *val) IsInstruction() bool { return false }
func (v *val) IsArgument() bool    { return false }
func (v *val) String() string      { return v.name }

// Const is a compile-time constant operand. It is never an abstract object
// generator; it exists purely so that operands that are not instructions or
// arguments can be represented. The Phi, Select and Store rules of both
// analyses filter it out by IsInstruction()/IsArgument(); Cast, Call and
// Return operands are used as they are.
type Const struct {
	val
	Repr string
}

func (c *Const) String() string { return c.Repr }

// Argument is a formal parameter of a Function.
type Argument struct {
	val
	parent *Function
}

func (a *Argument) IsArgument() bool  { return true }
func (a *Argument) Parent() *Function { return a.parent }

// Kind discriminates the instruction forms the analyses understand. Any
// instruction whose behaviour is not modelled (ordinary arithmetic,
// branches, ...) is tagged KOther and contributes no constraints.
type Kind int

const (
	KAlloca Kind = iota
	KGEP
	KLoad
	KStore
	KPhi
	KSelect
	KCast
	KCall
	KReturn
	KOther
)

func (k Kind) String() string {
	switch k {
	case KAlloca:
		return "alloca"
	case KGEP:
		return "gep"
	case KLoad:
		return "load"
	case KStore:
		return "store"
	case KPhi:
		return "phi"
	case KSelect:
		return "select"
	case KCast:
		return "cast"
	case KCall:
		return "call"
	case KReturn:
		return "return"
	default:
		return "other"
	}
}

// Instruction is any Value produced by an instruction slot in a basic block.
type Instruction interface {
	Value
	Kind() Kind
	Block() *BasicBlock
	Parent() *Function
}

// Insn is embedded by every concrete instruction type.
type Insn struct {
	val
	kind  Kind
	block *BasicBlock
}

func (i *Insn) IsInstruction() bool { return true }
func (i *Insn) Kind() Kind          { return i.kind }
func (i *Insn) Block() *BasicBlock  { return i.block }
func (i *Insn) Parent() *Function   { return i.block.Parent }

// Alloca allocates fresh stack memory; its result is a pointer to it. Allocas
// are abstract object generators for both Andersen and Steensgaard.
type Alloca struct{ Insn }

// GEP computes a derived address from a base pointer. Andersen treats each
// GEP as the generator of its own abstract object: field-insensitive, but
// still object-coarse (see package andersen's doc comment for why).
type GEP struct {
	Insn
	Base Value
}

// Load reads through a pointer operand.
type Load struct {
	Insn
	Ptr Value
}

// Store writes Val through the pointer operand Ptr. Stores have no result
// value (Type() is VoidType).
type Store struct {
	Insn
	Ptr Value
	Val Value
}

// Phi selects one of Incoming depending on the predecessor block.
type Phi struct {
	Insn
	Incoming []Value
}

// Select picks True or False depending on a runtime condition; both are
// treated as may-flow into the result.
type Select struct {
	Insn
	Cond, True, False Value
}

// Cast reinterprets Src as the instruction's result type.
type Cast struct {
	Insn
	Src Value
}

// Call invokes Callee with Args. Callee is nil for an indirect call (the
// callee is only known through a function pointer); indirect calls are
// ignored by both analyses (see the open question in spec.md §9).
type Call struct {
	Insn
	Callee *Function
	Args   []Value
}

// Return exits the enclosing function, optionally yielding Val. Val is nil
// for a void return.
type Return struct {
	Insn
	Val Value
}

// Other is a catch-all for instructions with no modelled memory effect
// (arithmetic, branches, comparisons, ...).
type Other struct{ Insn }

// BasicBlock is a straight-line sequence of instructions.
type BasicBlock struct {
	Name   string
	Instrs []Instruction
	Parent *Function
}

// Function is either a definition (non-empty Blocks) or a declaration
// (Blocks is empty). The analyses never look inside a declaration.
type Function struct {
	name    string
	Params  []*Argument
	RetType Type
	Blocks  []*BasicBlock
}

func (f *Function) Name() string       { return f.name }
func (f *Function) String() string     { return f.name }
func (f *Function) IsDeclaration() bool { return len(f.Blocks) == 0 }

// Module is a whole translation unit: a flat list of functions plus the
// use-list computed by Finalize.
type Module struct {
	Functions []*Function

	uses map[Value][]Instruction
}

// FuncByName returns the function with the given name, or nil.
func (m *Module) FuncByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Users returns the instructions that use v as an operand. Finalize must
// have been called first; until then Users always returns nil.
func (m *Module) Users(v Value) []Instruction {
	return m.uses[v]
}

// Finalize computes the use-list for every value in the module. It must be
// called once after construction and before any analysis runs; the
// analyses never mutate the IR and rely on the use-list being stable.
func (m *Module) Finalize() {
	m.uses = make(map[Value][]Instruction)
	addUse := func(operand Value, user Instruction) {
		if operand == nil {
			return
		}
		m.uses[operand] = append(m.uses[operand], user)
	}

	for _, fn := range m.Functions {
		for _, block := range fn.Blocks {
			for _, insn := range block.Instrs {
				switch t := insn.(type) {
				case *GEP:
					addUse(t.Base, t)
				case *Load:
					addUse(t.Ptr, t)
				case *Store:
					addUse(t.Ptr, t)
					addUse(t.Val, t)
				case *Phi:
					for _, v := range t.Incoming {
						addUse(v, t)
					}
				case *Select:
					addUse(t.Cond, t)
					addUse(t.True, t)
					addUse(t.False, t)
				case *Cast:
					addUse(t.Src, t)
				case *Call:
					for _, a := range t.Args {
						addUse(a, t)
					}
				case *Return:
					addUse(t.Val, t)
				}
			}
		}
	}
}
