package verify

import "github.com/sefton37/nolang/instr"

// fieldUse records which of an instruction's four operand fields carry
// meaning for a given opcode. Canonical-form programs hold 0 in every
// field not listed here; the structural pass reports any exception as
// NonZeroUnusedField.
type fieldUse struct {
	typeTag bool
	arg1    bool
	arg2    bool
	arg3    bool
}

var fieldUseTable = map[instr.Opcode]fieldUse{
	instr.Nop:      {},
	instr.Const:    {typeTag: true, arg1: true, arg2: true},
	instr.ConstExt: {typeTag: true, arg1: true},
	instr.Bind:     {},
	instr.Ref:      {arg1: true},
	instr.Drop:     {},

	instr.Add: {}, instr.Sub: {}, instr.Mul: {}, instr.Div: {}, instr.Mod: {}, instr.Neg: {},

	instr.Eq: {}, instr.Neq: {}, instr.Lt: {}, instr.Gt: {}, instr.Lte: {}, instr.Gte: {},

	instr.And: {}, instr.Or: {}, instr.Not: {}, instr.Xor: {}, instr.Shl: {}, instr.Shr: {}, instr.Implies: {},

	instr.Match:   {arg1: true},
	instr.Case:    {arg1: true, arg2: true},
	instr.Exhaust: {},

	instr.Func:    {arg1: true, arg2: true},
	instr.EndFunc: {},
	instr.Pre:     {arg1: true},
	instr.Post:    {arg1: true},
	instr.Call:    {arg1: true},
	instr.Recurse: {arg1: true},
	instr.Ret:     {},
	instr.Param:   {typeTag: true},

	instr.VariantNew: {typeTag: true, arg1: true, arg2: true},
	instr.TupleNew:   {typeTag: true, arg1: true},
	instr.Project:    {arg1: true},
	instr.ArrayNew:   {typeTag: true, arg1: true},
	instr.ArrayGet:   {},
	instr.ArrayLen:   {},

	instr.Assert: {},
	instr.Typeof: {arg1: true},
	instr.Hash:   {arg1: true, arg2: true, arg3: true},
	// FORALL's predicate body follows it inline, arg1 instructions long -
	// the same length-prefixed-block convention PRE/POST use.
	instr.Forall: {arg1: true},

	instr.Halt: {},
}

// checkUnusedFields reports NonZeroUnusedField when in carries a nonzero
// value in a field fieldUseTable says it doesn't use.
func checkUnusedFields(in instr.Instruction, pc int, errs *[]Error) {
	u, ok := fieldUseTable[in.Opcode]
	if !ok {
		// Unknown opcodes never reach here: the decoder already rejects
		// them. Treat conservatively as "uses nothing".
		u = fieldUse{}
	}
	bad := (!u.typeTag && in.Type != instr.None) ||
		(!u.arg1 && in.Arg1 != 0) ||
		(!u.arg2 && in.Arg2 != 0) ||
		(!u.arg3 && in.Arg3 != 0)
	if bad {
		*errs = append(*errs, Error{Kind: NonZeroUnusedField, At: pc})
	}
}
