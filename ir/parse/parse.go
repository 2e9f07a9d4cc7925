// Package parse loads the textual IR format used by this module's test
// fixtures and command-line tool into an [ir.Module].
//
// The IR data model and the analyses that consume it treat IR loading as an
// external concern (see spec §6): nothing here is part of the pointer
// analysis itself, it only exists so the tree has a runnable end-to-end
// path from a file on disk to an [ir.Module]. The grammar is a small,
// line-oriented subset of LLVM textual IR, restricted to the instruction
// forms the analyses understand:
//
//	declare func NAME(p0, p1) -> TYPE
//
//	func NAME(p0, p1) -> TYPE {
//	entry:
//	  %a = alloca
//	  %b = gep %a
//	  %c = load %a
//	  store %c -> %a
//	  %d = phi [%a, entry], [%b, entry]
//	  %e = select %cond, %a, %b
//	  %f = cast %a
//	  %g = call @other(%a, %b)
//	  ret %a
//	}
//
// TYPE is either "void" or any other identifier (treated as pointer-typed).
// Blank lines and lines starting with ';' are ignored.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/irssa/ptranalysis/ir"
)

// Error reports a malformed IR file together with the offending line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

type pending struct {
	apply func(scope map[string]ir.Value, funcs map[string]*ir.Function) error
}

// Parse reads a module from r. On a malformed line it returns a *Error with
// the offending line number, satisfying spec §7's "loader failure" taxonomy;
// a failure to read r itself is returned as a plain wrapped error.
func Parse(r io.Reader) (*ir.Module, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	b := ir.NewBuilder()
	funcs := map[string]*ir.Function{}

	// Pass 0: collect every function signature so forward calls resolve.
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		text := strings.TrimSpace(stripComment(ln))
		if text == "" {
			continue
		}

		declare := strings.HasPrefix(text, "declare func ")
		define := strings.HasPrefix(text, "func ")
		if !declare && !define {
			continue
		}

		prefix := "func "
		if declare {
			prefix = "declare func "
		}
		name, params, ret, err := parseSignature(strings.TrimPrefix(text, prefix))
		if err != nil {
			return nil, &Error{i + 1, err.Error()}
		}

		fn := b.NewFunction(name, params, ret, declare)
		funcs[name] = fn
	}

	// Pass 1 + 2: build instruction shells per function body, then resolve
	// operand references against that function's local scope.
	var pendings []pending

	i := 0
	for i < len(lines) {
		text := strings.TrimSpace(stripComment(lines[i]))
		if !strings.HasPrefix(text, "func ") {
			i++
			continue
		}

		name, _, _, err := parseSignature(strings.TrimPrefix(text, "func "))
		if err != nil {
			return nil, &Error{i + 1, err.Error()}
		}
		fn := funcs[name]

		if !strings.HasSuffix(text, "{") {
			return nil, &Error{i + 1, "expected '{' to open function body"}
		}

		scope := map[string]ir.Value{}
		for _, p := range fn.Params {
			scope[p.Name()] = p
		}

		i++
		var bb *ir.BasicBlock
		for i < len(lines) {
			raw := lines[i]
			text = strings.TrimSpace(stripComment(raw))
			if text == "}" {
				i++
				break
			}
			if text == "" {
				i++
				continue
			}
			if strings.HasSuffix(text, ":") {
				bb = b.NewBlock(fn, strings.TrimSuffix(text, ":"))
				i++
				continue
			}
			if bb == nil {
				return nil, &Error{i + 1, "instruction outside of a basic block"}
			}

			p, err := parseInstruction(b, bb, text, scope, funcs)
			if err != nil {
				return nil, &Error{i + 1, err.Error()}
			}
			if p.apply != nil {
				pendings = append(pendings, p)
			}
			i++
		}

		// Resolve this function's operand references now, while scope is
		// still the one built for it.
		for _, p := range pendings {
			if err := p.apply(scope, funcs); err != nil {
				return nil, &Error{0, err.Error()}
			}
		}
		pendings = pendings[:0]
	}

	mod := b.Module()
	mod.Finalize()
	return mod, nil
}

func stripComment(s string) string {
	if idx := strings.Index(s, ";"); idx >= 0 {
		return s[:idx]
	}
	return s
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading IR: %w", err)
	}
	return lines, nil
}

// parseSignature parses "NAME(p0, p1) -> TYPE [{]" (the trailing '{' is
// left for the caller to check for).
func parseSignature(s string) (name string, params []string, ret ir.Type, err error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "{")
	s = strings.TrimSpace(s)

	open := strings.Index(s, "(")
	close := strings.Index(s, ")")
	if open < 0 || close < open {
		return "", nil, ir.Type{}, fmt.Errorf("malformed function signature %q", s)
	}

	name = strings.TrimSpace(s[:open])
	paramList := s[open+1 : close]
	if strings.TrimSpace(paramList) != "" {
		for _, p := range strings.Split(paramList, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}

	rest := strings.TrimSpace(s[close+1:])
	rest = strings.TrimPrefix(rest, "->")
	retName := strings.TrimSpace(rest)
	if retName == "" || retName == "void" {
		ret = ir.VoidType
	} else {
		ret = ir.PointerType(retName)
	}
	return name, params, ret, nil
}

func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func operand(b *ir.Builder, scope map[string]ir.Value, tok string) (ir.Value, error) {
	tok = strings.TrimSpace(tok)
	// Scope keys are bare names: results and parameters are registered
	// without the leading '%' that operand references carry.
	if v, ok := scope[strings.TrimPrefix(tok, "%")]; ok {
		return v, nil
	}
	// Unknown tokens (bare identifiers, integer literals, ...) are treated
	// as constants: they are never instructions or arguments, so the
	// "isa<Instruction> || isa<Argument>" filters in the analyses correctly
	// ignore them. Built via b.Const so each gets its own allocated id
	// instead of the zero value every raw &ir.Const{} literal would share.
	return b.Const(tok, ir.ValueType("const")), nil
}

// parseInstruction parses one instruction line, appending a shell to bb via
// b. Any named result is registered into scope immediately (so a later
// instruction — including an earlier-appearing phi with a loop-back edge —
// can refer to it), while operand references are resolved by a returned
// pending step, since an operand may itself be such a forward reference.
func parseInstruction(b *ir.Builder, bb *ir.BasicBlock, text string, scope map[string]ir.Value, funcs map[string]*ir.Function) (pending, error) {
	name := ""
	rhs := text
	if idx := strings.Index(text, "="); idx >= 0 && !strings.HasPrefix(text, "store") {
		name = strings.TrimSpace(strings.TrimPrefix(text[:idx], "%"))
		rhs = strings.TrimSpace(text[idx+1:])
	}

	fields := strings.SplitN(rhs, " ", 2)
	op := fields[0]
	args := ""
	if len(fields) > 1 {
		args = fields[1]
	}

	switch op {
	case "alloca":
		inst := b.Alloca(bb, name)
		register(scope, name, inst)
		return pending{}, nil

	case "gep":
		inst := b.GEP(bb, name, nil)
		register(scope, name, inst)
		baseTok := strings.TrimSpace(args)
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			base, err := operand(b, scope, baseTok)
			if err != nil {
				return err
			}
			inst.Base = base
			return nil
		}}, nil

	case "load":
		inst := b.Load(bb, name, nil)
		register(scope, name, inst)
		ptrTok := strings.TrimSpace(args)
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			ptr, err := operand(b, scope, ptrTok)
			if err != nil {
				return err
			}
			inst.Ptr = ptr
			return nil
		}}, nil

	case "store":
		// "store %val -> %ptr"
		parts := strings.SplitN(text, "->", 2)
		if len(parts) != 2 {
			return pending{}, fmt.Errorf("malformed store %q", text)
		}
		valTok := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "store"))
		ptrTok := strings.TrimSpace(parts[1])
		inst := b.Store(bb, nil, nil)
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			val, err := operand(b, scope, valTok)
			if err != nil {
				return err
			}
			ptr, err := operand(b, scope, ptrTok)
			if err != nil {
				return err
			}
			inst.Val, inst.Ptr = val, ptr
			return nil
		}}, nil

	case "phi":
		// "phi [%a, entry], [%b, entry]"
		inst := b.Phi(bb, name)
		register(scope, name, inst)
		incomingTok := args
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			for _, group := range splitGroups(incomingTok) {
				parts := splitArgs(group)
				if len(parts) == 0 {
					continue
				}
				v, err := operand(b, scope, parts[0])
				if err != nil {
					return err
				}
				inst.Incoming = append(inst.Incoming, v)
			}
			return nil
		}}, nil

	case "select":
		inst := b.Select(bb, name, nil, nil, nil)
		register(scope, name, inst)
		parts := splitArgs(args)
		if len(parts) != 3 {
			return pending{}, fmt.Errorf("select needs 3 operands, got %q", text)
		}
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			cond, err := operand(b, scope, parts[0])
			if err != nil {
				return err
			}
			tval, err := operand(b, scope, parts[1])
			if err != nil {
				return err
			}
			fval, err := operand(b, scope, parts[2])
			if err != nil {
				return err
			}
			inst.Cond, inst.True, inst.False = cond, tval, fval
			return nil
		}}, nil

	case "cast":
		inst := b.Cast(bb, name, nil)
		register(scope, name, inst)
		srcTok := strings.TrimSpace(args)
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			src, err := operand(b, scope, srcTok)
			if err != nil {
				return err
			}
			inst.Src = src
			return nil
		}}, nil

	case "call":
		// "call @callee(%a, %b)" — callee name is resolved at pass 0, so we
		// only need to resolve the arguments against this function's scope.
		calleeName, argList, err := parseCall(args)
		if err != nil {
			return pending{}, err
		}
		callee := funcs[calleeName] // nil => indirect/unresolved call, per spec §9
		inst := b.Call(bb, name, callee)
		register(scope, name, inst)
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			for _, tok := range argList {
				v, err := operand(b, scope, tok)
				if err != nil {
					return err
				}
				inst.Args = append(inst.Args, v)
			}
			return nil
		}}, nil

	case "ret":
		inst := b.Return(bb, nil)
		valTok := strings.TrimSpace(args)
		if valTok == "" {
			return pending{}, nil
		}
		return pending{func(scope map[string]ir.Value, _ map[string]*ir.Function) error {
			v, err := operand(b, scope, valTok)
			if err != nil {
				return err
			}
			inst.Val = v
			return nil
		}}, nil

	default:
		// Unmodelled instruction: keep it around as an Other so use-lists
		// and printing stay complete, but it contributes no constraints.
		inst := b.Other(bb, name, ir.ValueType(op))
		register(scope, name, inst)
		return pending{}, nil
	}
}

// register records name -> v in scope, unless the instruction has no result
// (e.g. store, ret).
func register(scope map[string]ir.Value, name string, v ir.Value) {
	if name != "" {
		scope[name] = v
	}
}

// splitGroups splits "[%a, entry], [%b, entry]" into ["%a, entry", "%b, entry"].
func splitGroups(s string) []string {
	var groups []string
	depth := 0
	start := -1
	for i, r := range s {
		switch r {
		case '[':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ']':
			depth--
			if depth == 0 && start >= 0 {
				groups = append(groups, s[start:i])
				start = -1
			}
		}
	}
	return groups
}

// parseCall parses "@name(a, b)" into ("name", ["a","b"]).
func parseCall(s string) (string, []string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	open := strings.Index(s, "(")
	closeIdx := strings.LastIndex(s, ")")
	if open < 0 || closeIdx < open {
		return "", nil, fmt.Errorf("malformed call %q", s)
	}
	name := strings.TrimSpace(s[:open])
	return name, splitArgs(s[open+1 : closeIdx]), nil
}
