package verify

import "github.com/sefton37/nolang/instr"

// Hard limits every verified program must stay within.
const (
	MaxProgramSize   = 65536
	MaxRefIndex      = 4096
	MaxRecursionLimit = 1024
)

// checkLimits runs pass 1: program size, REF depth, RECURSE limit. It does
// not depend on the structural context, so it can run first.
func checkLimits(instrs []instr.Instruction) []Error {
	var errs []Error

	if len(instrs) > MaxProgramSize {
		errs = append(errs, Error{Kind: ProgramTooLarge, Size: len(instrs)})
	}

	for i, in := range instrs {
		switch in.Opcode {
		case instr.Ref:
			if in.Arg1 > MaxRefIndex {
				errs = append(errs, Error{Kind: RefTooDeep, At: i, Index: in.Arg1})
			}
		case instr.Recurse:
			if in.Arg1 > MaxRecursionLimit {
				errs = append(errs, Error{Kind: RecursionLimitTooHigh, At: i, Limit: in.Arg1})
			}
		}
	}

	return errs
}
