package instr

// Opcode is the first byte of an encoded Instruction. The space is a closed
// enumeration partitioned into sixteen-value groups; the low end of each
// group holds the live mnemonics, the remainder of the group is reserved.
type Opcode uint8

// Foundation group (0x01-0x0F): binding and constants.
const (
	Nop Opcode = 0x01 + iota
	Const
	ConstExt
	Bind
	Ref
	Drop
)

// Arithmetic group (0x10-0x1F).
const (
	Add Opcode = 0x10 + iota
	Sub
	Mul
	Div
	Mod
	Neg
)

// Comparison group (0x20-0x2F).
const (
	Eq Opcode = 0x20 + iota
	Neq
	Lt
	Gt
	Lte
	Gte
)

// Logic/bitwise group (0x30-0x3F).
const (
	And Opcode = 0x30 + iota
	Or
	Not
	Xor
	Shl
	Shr
	Implies
)

// Pattern-matching group (0x40-0x4F).
const (
	Match Opcode = 0x40 + iota
	Case
	Exhaust
)

// Functions group (0x50-0x5F).
const (
	Func Opcode = 0x50 + iota
	EndFunc
	Pre
	Post
	Call
	Recurse
	Ret
	Param
)

// Data construction group (0x60-0x6F).
const (
	VariantNew Opcode = 0x60 + iota
	TupleNew
	Project
	ArrayNew
	ArrayGet
	ArrayLen
)

// Verification/meta group (0x70-0x7F).
const (
	Assert Opcode = 0x70 + iota
	Typeof
	Hash
	Forall
)

// Halt sits alone at the top of the byte space; it's the only VM-control
// opcode and the only opcode allowed to be the last instruction in a
// program.
const Halt Opcode = 0xFE

// allOpcodes lists every live mnemonic in byte order. Anything in [1,0xFD]
// not listed here is reserved.
var allOpcodes = [...]Opcode{
	Nop, Const, ConstExt, Bind, Ref, Drop,
	Add, Sub, Mul, Div, Mod, Neg,
	Eq, Neq, Lt, Gt, Lte, Gte,
	And, Or, Not, Xor, Shl, Shr, Implies,
	Match, Case, Exhaust,
	Func, EndFunc, Pre, Post, Call, Recurse, Ret, Param,
	VariantNew, TupleNew, Project, ArrayNew, ArrayGet, ArrayLen,
	Assert, Typeof, Hash, Forall,
	Halt,
}

var mnemonics = map[Opcode]string{
	Nop: "NOP", Const: "CONST", ConstExt: "CONST_EXT", Bind: "BIND", Ref: "REF", Drop: "DROP",
	Add: "ADD", Sub: "SUB", Mul: "MUL", Div: "DIV", Mod: "MOD", Neg: "NEG",
	Eq: "EQ", Neq: "NEQ", Lt: "LT", Gt: "GT", Lte: "LTE", Gte: "GTE",
	And: "AND", Or: "OR", Not: "NOT", Xor: "XOR", Shl: "SHL", Shr: "SHR", Implies: "IMPLIES",
	Match: "MATCH", Case: "CASE", Exhaust: "EXHAUST",
	Func: "FUNC", EndFunc: "ENDFUNC", Pre: "PRE", Post: "POST", Call: "CALL", Recurse: "RECURSE", Ret: "RET", Param: "PARAM",
	VariantNew: "VARIANT_NEW", TupleNew: "TUPLE_NEW", Project: "PROJECT", ArrayNew: "ARRAY_NEW", ArrayGet: "ARRAY_GET", ArrayLen: "ARRAY_LEN",
	Assert: "ASSERT", Typeof: "TYPEOF", Hash: "HASH", Forall: "FORALL",
	Halt: "HALT",
}

var mnemonicIndex map[string]Opcode

func init() {
	mnemonicIndex = make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		mnemonicIndex[name] = op
	}
}

// Mnemonic returns the uppercase assembly mnemonic for op, or "" if op is
// not a live opcode.
func (op Opcode) Mnemonic() string {
	return mnemonics[op]
}

// OpcodeByMnemonic looks up a live opcode by its uppercase mnemonic.
func OpcodeByMnemonic(s string) (Opcode, bool) {
	op, ok := mnemonicIndex[s]
	return op, ok
}

// ParseOpcode decodes a raw byte into a live Opcode, or reports why it
// can't: the zero byte is always IllegalOpcode, anything else not in
// allOpcodes is ReservedOpcode.
func ParseOpcode(b byte) (Opcode, error) {
	if b == 0 {
		return 0, &DecodeError{Kind: IllegalOpcode}
	}
	op := Opcode(b)
	if _, ok := mnemonics[op]; ok {
		return op, nil
	}
	return 0, &DecodeError{Kind: ReservedOpcode, Byte: b}
}
