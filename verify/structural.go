package verify

import "github.com/sefton37/nolang/instr"

// StructuralContext exposes pass 2 on its own, for tooling that needs a
// program's FUNC/MATCH block boundaries without running the full
// eight-pass Verify - notably the hash-recomputation verb, which must
// work on a program whose stored HASH values are wrong or missing.
func StructuralContext(p instr.Program) (ProgramContext, []Error) {
	return checkStructural(p.Instructions)
}

// checkStructural runs pass 2. It walks the program once, matching every
// FUNC against its ENDFUNC and every MATCH against its EXHAUST, and
// builds the ProgramContext that passes 3 through 8 depend on. Unlike
// the later passes it does not collect-and-continue past a block
// mismatch: an unmatched FUNC or MATCH leaves the rest of the program's
// byte layout meaningless, so it sets ctx.Fatal and stops.
func checkStructural(instrs []instr.Instruction) (ProgramContext, []Error) {
	ctx := ProgramContext{ConstExtSlots: map[int]bool{}}
	var errs []Error

	if len(instrs) == 0 {
		errs = append(errs, Error{Kind: MissingHalt})
		ctx.Fatal = true
		return ctx, errs
	}

	scanRange(instrs, 0, len(instrs), true, &ctx, &errs)
	if ctx.Fatal {
		return ctx, errs
	}

	if instrs[len(instrs)-1].Opcode != instr.Halt {
		errs = append(errs, Error{Kind: MissingHalt})
	}

	ctx.EntryPoint = entryPoint(ctx)
	return ctx, errs
}

func entryPoint(ctx ProgramContext) int {
	entry := 0
	for _, f := range ctx.Functions {
		if end := f.EndFuncPC + 1; end > entry {
			entry = end
		}
	}
	return entry
}

// scanRange walks instrs[start:end], recording FUNC and MATCH blocks into
// ctx and reporting RET/HASH instruction positions it passes over.
// allowFunc is false inside a FUNC body or CASE body, where a FUNC
// instruction is a structural error rather than a new block.
func scanRange(instrs []instr.Instruction, start, end int, allowFunc bool, ctx *ProgramContext, errs *[]Error) (retPCs, hashPCs []int) {
	pc := start
	for pc < end {
		in := instrs[pc]
		switch in.Opcode {
		case instr.ConstExt:
			checkUnusedFields(in, pc, errs)
			ctx.ConstExtSlots[pc+1] = true
			pc += 2

		case instr.Func:
			if !allowFunc {
				*errs = append(*errs, Error{Kind: NestedFunc, At: pc})
				pc++
				continue
			}
			fi, blockEnd, ok := scanFuncBlock(instrs, pc, end, ctx, errs)
			if !ok {
				*errs = append(*errs, Error{Kind: UnmatchedFunc, At: pc})
				ctx.Fatal = true
				return
			}
			ctx.Functions = append(ctx.Functions, fi)
			pc = blockEnd

		case instr.Match:
			mi, blockEnd, ok := scanMatchBlock(instrs, pc, end, ctx, errs)
			if !ok {
				*errs = append(*errs, Error{Kind: UnmatchedMatch, At: pc})
				ctx.Fatal = true
				return
			}
			ctx.Matches = append(ctx.Matches, mi)
			pc = blockEnd

		case instr.Forall:
			checkUnusedFields(in, pc, errs)
			bodyLen := int(in.Arg1)
			bodyStart := pc + 1
			bodyEnd := bodyStart + bodyLen
			if bodyEnd > end {
				bodyEnd = end
			}
			scanRange(instrs, bodyStart, bodyEnd, false, ctx, errs)
			pc = bodyEnd

		case instr.Ret:
			checkUnusedFields(in, pc, errs)
			retPCs = append(retPCs, pc)
			pc++

		case instr.Hash:
			checkUnusedFields(in, pc, errs)
			hashPCs = append(hashPCs, pc)
			pc++

		default:
			checkUnusedFields(in, pc, errs)
			pc++
		}
	}
	return
}

// scanFuncBlock consumes a FUNC instruction at funcPC together with its
// PARAM*/PRE*/POST* prologue, body, and matching ENDFUNC. It reports
// ok=false if funcPC's declared body length doesn't land on an ENDFUNC.
func scanFuncBlock(instrs []instr.Instruction, funcPC, outerEnd int, ctx *ProgramContext, errs *[]Error) (FuncInfo, int, bool) {
	head := instrs[funcPC]
	checkUnusedFields(head, funcPC, errs)

	paramCount := head.Arg1
	bodyLen := int(head.Arg2)
	endFuncPC := funcPC + 1 + bodyLen

	if endFuncPC >= outerEnd || endFuncPC >= len(instrs) || instrs[endFuncPC].Opcode != instr.EndFunc {
		return FuncInfo{}, 0, false
	}
	checkUnusedFields(instrs[endFuncPC], endFuncPC, errs)

	pc := funcPC + 1
	var paramPCs []int
	for pc < endFuncPC && instrs[pc].Opcode == instr.Param {
		checkUnusedFields(instrs[pc], pc, errs)
		paramPCs = append(paramPCs, pc)
		pc++
	}

	var preBlocks []Block
	for pc < endFuncPC && instrs[pc].Opcode == instr.Pre {
		checkUnusedFields(instrs[pc], pc, errs)
		l := int(instrs[pc].Arg1)
		preBlocks = append(preBlocks, Block{Start: pc + 1, Len: l})
		pc += 1 + l
	}

	var postBlocks []Block
	for pc < endFuncPC && instrs[pc].Opcode == instr.Post {
		checkUnusedFields(instrs[pc], pc, errs)
		l := int(instrs[pc].Arg1)
		postBlocks = append(postBlocks, Block{Start: pc + 1, Len: l})
		pc += 1 + l
	}

	bodyStartPC := pc
	retPCs, hashPCs := scanRange(instrs, bodyStartPC, endFuncPC, false, ctx, errs)

	fi := FuncInfo{
		FuncPC:      funcPC,
		ParamCount:  paramCount,
		BodyLen:     bodyLen,
		ParamPCs:    paramPCs,
		PreBlocks:   preBlocks,
		PostBlocks:  postBlocks,
		BodyStartPC: bodyStartPC,
		EndFuncPC:   endFuncPC,
		HashPC:      -1,
		RetPCs:      retPCs,
	}
	if len(hashPCs) == 1 {
		fi.HashPC = hashPCs[0]
	}
	if int(paramCount) != len(paramPCs) {
		*errs = append(*errs, Error{Kind: ParamCountMismatch, At: funcPC, ExpectedCount: paramCount, FoundCount: uint16(len(paramPCs))})
	}

	return fi, endFuncPC + 1, true
}

// scanMatchBlock consumes a MATCH instruction at matchPC together with its
// ascending-tag CASE arms and matching EXHAUST. It reports ok=false if no
// EXHAUST terminates the arm sequence before outerEnd. Tag-order
// violations (a repeated tag is also out of order) are reported here
// rather than failing the block outright, since the block's byte layout
// (and hence every later pass's positional reasoning) is still sound
// even when the tags are out of order.
func scanMatchBlock(instrs []instr.Instruction, matchPC, outerEnd int, ctx *ProgramContext, errs *[]Error) (MatchInfo, int, bool) {
	head := instrs[matchPC]
	checkUnusedFields(head, matchPC, errs)
	variantCount := head.Arg1

	pc := matchPC + 1
	expectedTag := uint16(0)
	var cases []CaseInfo

	for pc < outerEnd && instrs[pc].Opcode == instr.Case {
		c := instrs[pc]
		checkUnusedFields(c, pc, errs)
		tag := c.Arg1
		bodyLen := int(c.Arg2)

		if tag != expectedTag {
			*errs = append(*errs, Error{Kind: CaseOrderViolation, At: pc, ExpectedTag: int(expectedTag), FoundTag: int(tag)})
		}

		bodyStart := pc + 1
		bodyEnd := bodyStart + bodyLen
		if bodyEnd > outerEnd {
			bodyEnd = outerEnd
		}
		scanRange(instrs, bodyStart, bodyEnd, false, ctx, errs)

		cases = append(cases, CaseInfo{CasePC: pc, Tag: tag, BodyStart: bodyStart, BodyLen: bodyLen})
		pc = bodyEnd
		expectedTag++
	}

	if pc >= outerEnd || instrs[pc].Opcode != instr.Exhaust {
		return MatchInfo{}, 0, false
	}
	checkUnusedFields(instrs[pc], pc, errs)

	mi := MatchInfo{MatchPC: matchPC, VariantCount: variantCount, Cases: cases, ExhaustPC: pc}
	return mi, pc + 1, true
}
