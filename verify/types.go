package verify

import "github.com/sefton37/nolang/instr"

// AbstractType is a point in the two-level lattice the types pass
// computes over: Unknown (the top element, produced whenever inference
// loses precision - most commonly a REF into a binding whose value
// originated from a function argument) or a concrete TypeTag.
type AbstractType struct {
	known bool
	tag   instr.TypeTag
}

// UnknownType is the lattice's top element.
var UnknownType = AbstractType{}

// Concrete builds a known AbstractType.
func Concrete(t instr.TypeTag) AbstractType {
	return AbstractType{known: true, tag: t}
}

func (a AbstractType) isNumeric() bool {
	return a.known && a.tag.IsNumeric()
}

// agree reports whether a and b can be treated as the same type: true if
// either is Unknown, or both are concrete and equal.
func (a AbstractType) agree(b AbstractType) bool {
	if !a.known || !b.known {
		return true
	}
	return a.tag == b.tag
}

// MatchTypeInfo records, per MATCH instruction index, whether the cases
// of that match receive a payload value. Per the convention that every
// Variant/Maybe/Result value is constructed by wrapping exactly one
// payload (VARIANT_NEW always pops one), every tag of a Variant-family
// subject carries a payload uniformly; Bool's two synthetic tags never
// do. This makes payload presence a property of the subject's type, not
// of the individual tag - see DESIGN.md for the reasoning.
type MatchTypeInfo map[int]bool

type typeState struct {
	errs   []Error
	info   MatchTypeInfo
	instrs []instr.Instruction
	ctx    ProgramContext
}

// checkTypes runs pass 5 over the entry point and every function body,
// simulating an abstract operand stack and binding environment.
func checkTypes(instrs []instr.Instruction, ctx ProgramContext) ([]Error, MatchTypeInfo) {
	st := &typeState{instrs: instrs, ctx: ctx, info: MatchTypeInfo{}}

	st.simulate(ctx.EntryPoint, len(instrs), nil)
	for _, f := range ctx.Functions {
		end := f.EndFuncPC
		if len(f.RetPCs) > 0 {
			end = f.RetPCs[0]
		}
		st.simulate(f.BodyStartPC, end, paramEnv(instrs, f))
	}

	return st.errs, st.info
}

// paramEnv builds a FUNC body's initial binding environment straight off
// its PARAM prologue: ParamPCs[0] is the first formal parameter and
// lands at env[0], matching the order vm.callFunction's functionArgs
// binds arguments in. Each entry is Concrete at the PARAM's own type_tag
// byte, rather than Unknown, so a body that does arithmetic directly on
// a parameter (e.g. comparing it or subtracting 1) gets the same
// TypeMismatch checking any other concretely-typed value would.
func paramEnv(instrs []instr.Instruction, f FuncInfo) []AbstractType {
	env := make([]AbstractType, len(f.ParamPCs))
	for i, pc := range f.ParamPCs {
		env[i] = Concrete(instrs[pc].Type)
	}
	return env
}

// simulate type-checks instrs[start:end] with the given initial binding
// environment (index 0 = most recently bound) and returns the abstract
// stack left behind.
func (st *typeState) simulate(start, end int, env []AbstractType) []AbstractType {
	var stack []AbstractType
	pc := start

	pop := func() AbstractType {
		if len(stack) == 0 {
			return UnknownType
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	push := func(t AbstractType) { stack = append(stack, t) }
	mismatch := func(at int, want, got instr.TypeTag) {
		st.errs = append(st.errs, Error{Kind: TypeMismatch, At: at, Expected: want, Found: got})
	}

	for pc < end {
		in := st.instrs[pc]
		switch in.Opcode {
		case instr.ConstExt:
			push(Concrete(in.Type))
			pc += 2
			continue

		case instr.Const:
			push(Concrete(in.Type))

		case instr.Bind:
			env = append([]AbstractType{pop()}, env...)

		case instr.Ref:
			k := int(in.Arg1)
			if k >= len(env) {
				st.errs = append(st.errs, Error{Kind: UnresolvableRef, At: pc, Index: in.Arg1, BindingDepth: uint16(len(env))})
				push(UnknownType)
			} else {
				push(env[k])
			}

		case instr.Drop:
			if len(env) > 0 {
				env = env[1:]
			}

		case instr.Add, instr.Sub, instr.Mul, instr.Div:
			b, a := pop(), pop()
			if !a.agree(b) || (a.known && !a.isNumeric()) || (b.known && !b.isNumeric()) {
				mismatch(pc, a.tag, b.tag)
			}
			if a.known {
				push(a)
			} else {
				push(b)
			}

		case instr.Mod:
			b, a := pop(), pop()
			if a.known && a.tag == instr.F64 {
				mismatch(pc, instr.I64, instr.F64)
			}
			if !a.agree(b) || (a.known && !a.isNumeric()) {
				mismatch(pc, a.tag, b.tag)
			}
			if a.known {
				push(a)
			} else {
				push(b)
			}

		case instr.Neg:
			a := pop()
			if a.known && a.tag != instr.I64 && a.tag != instr.F64 {
				mismatch(pc, instr.I64, a.tag)
			}
			push(a)

		case instr.Eq, instr.Neq, instr.Lt, instr.Gt, instr.Lte, instr.Gte:
			b, a := pop(), pop()
			if !a.agree(b) {
				mismatch(pc, a.tag, b.tag)
			}
			push(Concrete(instr.Bool))

		case instr.And, instr.Or, instr.Xor:
			b, a := pop(), pop()
			okA := !a.known || a.tag == instr.Bool || a.isNumeric()
			if !a.agree(b) || !okA {
				mismatch(pc, a.tag, b.tag)
			}
			if a.known {
				push(a)
			} else {
				push(b)
			}

		case instr.Not:
			a := pop()
			push(a)

		case instr.Shl, instr.Shr:
			b, a := pop(), pop()
			if a.known && !a.isNumeric() {
				mismatch(pc, instr.I64, a.tag)
			}
			if b.known && !b.isNumeric() {
				mismatch(pc, instr.I64, b.tag)
			}
			push(a)

		case instr.Implies:
			b, a := pop(), pop()
			if a.known && a.tag != instr.Bool {
				mismatch(pc, instr.Bool, a.tag)
			}
			if b.known && b.tag != instr.Bool {
				mismatch(pc, instr.Bool, b.tag)
			}
			push(Concrete(instr.Bool))

		case instr.Match:
			st.simulateMatch(pc, &stack, env)
			pc = st.matchEnd(pc)
			continue

		case instr.VariantNew:
			pop()
			push(Concrete(instr.Variant))

		case instr.TupleNew:
			n := int(in.Arg1)
			for i := 0; i < n; i++ {
				pop()
			}
			push(Concrete(instr.Tuple))

		case instr.Project:
			a := pop()
			if a.known && a.tag != instr.Tuple {
				mismatch(pc, instr.Tuple, a.tag)
			}
			push(UnknownType)

		case instr.ArrayNew:
			n := int(in.Arg1)
			for i := 0; i < n; i++ {
				pop()
			}
			push(Concrete(instr.Array))

		case instr.ArrayGet:
			idx, a := pop(), pop()
			if idx.known && idx.tag != instr.U64 {
				mismatch(pc, instr.U64, idx.tag)
			}
			if a.known && a.tag != instr.Array {
				mismatch(pc, instr.Array, a.tag)
			}
			push(UnknownType)

		case instr.ArrayLen:
			a := pop()
			if a.known && a.tag != instr.Array {
				mismatch(pc, instr.Array, a.tag)
			}
			push(Concrete(instr.U64))

		case instr.Assert:
			a := pop()
			if a.known && a.tag != instr.Bool {
				mismatch(pc, instr.Bool, a.tag)
			}

		case instr.Typeof:
			a := pop()
			push(a)
			push(Concrete(instr.Bool))

		case instr.Forall:
			a := pop()
			if a.known && a.tag != instr.Array {
				mismatch(pc, instr.Array, a.tag)
			}
			bodyLen := int(in.Arg1)
			bodyStart := pc + 1
			elemEnv := append([]AbstractType{UnknownType}, env...)
			bodyStack := st.simulate(bodyStart, bodyStart+bodyLen, elemEnv)
			if len(bodyStack) > 0 {
				top := bodyStack[len(bodyStack)-1]
				if top.known && top.tag != instr.Bool {
					mismatch(pc, instr.Bool, top.tag)
				}
			}
			push(Concrete(instr.Bool))
			pc = bodyStart + bodyLen
			continue

		case instr.Call, instr.Recurse:
			var f FuncInfo
			ok := false
			if in.Opcode == instr.Call {
				f, ok = st.ctx.FuncByBindingIndex(in.Arg1)
				if !ok {
					st.errs = append(st.errs, Error{Kind: UnresolvableRef, At: pc, Index: in.Arg1, BindingDepth: uint16(len(st.ctx.Functions))})
				}
			} else {
				// RECURSE's arg1 is its depth limit; it re-enters the
				// FUNC block that contains it.
				for _, g := range st.ctx.Functions {
					if g.FuncPC < pc && pc < g.EndFuncPC {
						f, ok = g, true
						break
					}
				}
			}
			if ok {
				for i := uint16(0); i < f.ParamCount; i++ {
					pop()
				}
			}
			push(UnknownType)

		case instr.Nop, instr.Hash, instr.Ret, instr.Halt,
			instr.Func, instr.EndFunc, instr.Pre, instr.Post,
			instr.Case, instr.Exhaust, instr.Param:
			// Sentinels and prologue markers carry no type-level effect
			// here; their structure was already validated in pass 2.
		}

		pc++
	}

	return stack
}

// matchEnd locates the EXHAUST paired with the MATCH at pc using the
// block already recorded in ctx.Matches, returning the index after it.
func (st *typeState) matchEnd(pc int) int {
	for _, m := range st.ctx.Matches {
		if m.MatchPC == pc {
			return m.ExhaustPC + 1
		}
	}
	return pc + 1
}

// simulateMatch type-checks a MATCH's subject and every CASE body,
// requiring the subject's type to be matchable and every case's result
// type to agree, then records whether the match's cases carry a payload
// into st.info.
func (st *typeState) simulateMatch(matchPC int, stack *[]AbstractType, env []AbstractType) {
	var subject AbstractType
	if len(*stack) > 0 {
		subject = (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
	}

	if subject.known {
		switch subject.tag {
		case instr.Bool, instr.Variant, instr.Maybe, instr.Result:
		default:
			st.errs = append(st.errs, Error{Kind: TypeMismatch, At: matchPC, Expected: instr.Variant, Found: subject.tag})
		}
	}

	hasPayload := !subject.known || subject.tag != instr.Bool
	st.info[matchPC] = hasPayload

	var mi *MatchInfo
	for i := range st.ctx.Matches {
		if st.ctx.Matches[i].MatchPC == matchPC {
			mi = &st.ctx.Matches[i]
			break
		}
	}
	if mi == nil {
		*stack = append(*stack, UnknownType)
		return
	}

	var resultType AbstractType
	haveResult := false
	for _, c := range mi.Cases {
		caseStack := st.simulate(c.BodyStart, c.BodyStart+c.BodyLen, env)
		var top AbstractType
		if len(caseStack) > 0 {
			top = caseStack[len(caseStack)-1]
		}
		if !haveResult {
			resultType = top
			haveResult = true
			continue
		}
		if !resultType.agree(top) {
			st.errs = append(st.errs, Error{Kind: TypeMismatch, At: c.CasePC, Expected: resultType.tag, Found: top.tag})
		} else if !resultType.known && top.known {
			resultType = top
		}
	}

	*stack = append(*stack, resultType)
}
