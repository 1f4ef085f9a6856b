package verify

import "github.com/sefton37/nolang/instr"

// checkReachability runs pass 8. Every FUNC block is live unconditionally
// - functions are referenced by positional binding index rather than by
// name, so proving which ones the entry point actually calls would
// require tracing argument flow through CALL, which this level of
// analysis doesn't attempt. The entry point's own flow is live from
// ctx.EntryPoint linearly through its first HALT (CASE bodies are
// physically inline in that range, so no separate descent step is
// needed); anything the program's byte layout places outside both of
// those is unreachable.
func checkReachability(instrs []instr.Instruction, ctx ProgramContext) []Error {
	live := make([]bool, len(instrs))

	for _, f := range ctx.Functions {
		for i := f.FuncPC; i <= f.EndFuncPC && i < len(instrs); i++ {
			live[i] = true
		}
	}

	for slot := range ctx.ConstExtSlots {
		if slot < len(live) {
			live[slot] = true
		}
	}

	pc := ctx.EntryPoint
	for pc < len(instrs) {
		live[pc] = true
		if instrs[pc].Opcode == instr.Halt {
			break
		}
		pc++
	}

	var errs []Error
	for i, ok := range live {
		if !ok {
			errs = append(errs, Error{Kind: UnreachableInstruction, At: i})
		}
	}
	return errs
}
