package verify

import "github.com/sefton37/nolang/instr"

// delta is the (pops, pushes) effect of an opcode that isn't one of the
// handful requiring bespoke handling below (MATCH/CASE/EXHAUST, CALL,
// RECURSE, RET, HALT, and the sentinels).
var deltaTable = map[instr.Opcode][2]int{
	instr.Nop:   {0, 0},
	instr.Const: {0, 1}, instr.ConstExt: {0, 1},
	instr.Bind: {1, 0}, instr.Ref: {0, 1}, instr.Drop: {1, 0},

	instr.Add: {2, 1}, instr.Sub: {2, 1}, instr.Mul: {2, 1}, instr.Div: {2, 1}, instr.Mod: {2, 1}, instr.Neg: {1, 1},

	instr.Eq: {2, 1}, instr.Neq: {2, 1}, instr.Lt: {2, 1}, instr.Gt: {2, 1}, instr.Lte: {2, 1}, instr.Gte: {2, 1},

	instr.And: {2, 1}, instr.Or: {2, 1}, instr.Not: {1, 1}, instr.Xor: {2, 1}, instr.Shl: {2, 1}, instr.Shr: {2, 1}, instr.Implies: {2, 1},

	instr.VariantNew: {1, 1}, instr.Project: {1, 1},
	instr.ArrayGet: {2, 1}, instr.ArrayLen: {1, 1},

	instr.Assert: {1, 0}, instr.Typeof: {1, 2},

	instr.Hash: {0, 0},
}

// checkStack runs pass 7 over the entry point and every function body,
// tracking only stack depth (the types pass already settled what's on
// it). It reports StackUnderflow the instant a pop would go negative and
// keeps going with depth clamped to 0, so one early mistake doesn't mask
// every later one.
func checkStack(instrs []instr.Instruction, ctx ProgramContext, matchInfo MatchTypeInfo) []Error {
	var errs []Error

	entryDepth := walkStack(instrs, ctx.EntryPoint, len(instrs), 0, ctx, matchInfo, &errs)
	if entryDepth != 1 {
		at := len(instrs) - 1
		if at < ctx.EntryPoint {
			at = ctx.EntryPoint
		}
		errs = append(errs, Error{Kind: UnbalancedStack, At: at, Depth: entryDepth})
	}

	for _, f := range ctx.Functions {
		end := f.EndFuncPC
		if len(f.RetPCs) > 0 {
			end = f.RetPCs[0]
		}
		bodyDepth := walkStack(instrs, f.BodyStartPC, end, 0, ctx, matchInfo, &errs)
		if bodyDepth != 1 {
			errs = append(errs, Error{Kind: UnbalancedStack, At: end, Depth: bodyDepth})
		}
	}

	return errs
}

func walkStack(instrs []instr.Instruction, start, end, depth int, ctx ProgramContext, matchInfo MatchTypeInfo, errs *[]Error) int {
	pop := func(pc int) {
		if depth == 0 {
			*errs = append(*errs, Error{Kind: StackUnderflow, At: pc})
			return
		}
		depth--
	}

	pc := start
	for pc < end {
		in := instrs[pc]

		switch in.Opcode {
		case instr.ConstExt:
			depth++
			pc += 2
			continue

		case instr.TupleNew:
			for i := 0; i < int(in.Arg1); i++ {
				pop(pc)
			}
			depth++

		case instr.ArrayNew:
			for i := 0; i < int(in.Arg1); i++ {
				pop(pc)
			}
			depth++

		case instr.Call:
			if f, ok := ctx.FuncByBindingIndex(in.Arg1); ok {
				for i := uint16(0); i < f.ParamCount; i++ {
					pop(pc)
				}
			}
			depth++

		case instr.Recurse:
			// RECURSE's arg1 is its depth limit; it re-enters the FUNC
			// block that contains it.
			for _, f := range ctx.Functions {
				if f.FuncPC < pc && pc < f.EndFuncPC {
					for i := uint16(0); i < f.ParamCount; i++ {
						pop(pc)
					}
					break
				}
			}
			depth++

		case instr.Match:
			depth = walkMatch(instrs, pc, depth, ctx, matchInfo, errs)
			pc = matchExhaustPC(ctx, pc) + 1
			continue

		case instr.Forall:
			pop(pc)
			bodyLen := int(in.Arg1)
			bodyStart := pc + 1
			result := walkStack(instrs, bodyStart, bodyStart+bodyLen, depth, ctx, matchInfo, errs)
			if result != depth+1 {
				*errs = append(*errs, Error{Kind: UnbalancedStack, At: pc, Depth: result})
			}
			depth++
			pc = bodyStart + bodyLen
			continue

		case instr.Ret:
			if depth != 1 {
				*errs = append(*errs, Error{Kind: UnbalancedStack, At: pc, Depth: depth})
			}

		case instr.Halt:
			if depth != 1 {
				*errs = append(*errs, Error{Kind: UnbalancedStack, At: pc, Depth: depth})
			}

		case instr.Func, instr.EndFunc, instr.Pre, instr.Post, instr.Param,
			instr.Case, instr.Exhaust, instr.Nop, instr.Hash:
			// handled by their enclosing block or carry no stack effect.

		default:
			if d, ok := deltaTable[in.Opcode]; ok {
				for i := 0; i < d[0]; i++ {
					pop(pc)
				}
				depth += d[1]
			}
		}

		pc++
	}

	return depth
}

func matchExhaustPC(ctx ProgramContext, matchPC int) int {
	for _, m := range ctx.Matches {
		if m.MatchPC == matchPC {
			return m.ExhaustPC
		}
	}
	return matchPC
}

// walkMatch pops the subject, then walks every CASE body from the same
// base depth (forking with +1 first if the case receives a payload),
// requiring every branch to converge on base+1 by EXHAUST.
func walkMatch(instrs []instr.Instruction, matchPC, depth int, ctx ProgramContext, matchInfo MatchTypeInfo, errs *[]Error) int {
	if depth == 0 {
		*errs = append(*errs, Error{Kind: StackUnderflow, At: matchPC})
	} else {
		depth--
	}
	base := depth

	var mi *MatchInfo
	for i := range ctx.Matches {
		if ctx.Matches[i].MatchPC == matchPC {
			mi = &ctx.Matches[i]
			break
		}
	}
	if mi == nil {
		return base + 1
	}

	hasPayload := matchInfo[matchPC]
	for _, c := range mi.Cases {
		caseDepth := base
		if hasPayload {
			caseDepth++
		}
		result := walkStack(instrs, c.BodyStart, c.BodyStart+c.BodyLen, caseDepth, ctx, matchInfo, errs)
		if result != base+1 {
			*errs = append(*errs, Error{Kind: UnbalancedStack, At: c.CasePC, Depth: result})
		}
	}

	return base + 1
}
