package asm

import (
	"bufio"
	"io"

	"github.com/sefton37/nolang/instr"
)

// Assemble compiles assembly text read from r into a Program.
//
// The source has no labels: every branch and block length in NoLang
// assembly is a literal count, so a single forward pass over the
// lines is enough. One line produces one instruction, except
// CONST_EXT which produces two (the extension instruction and its
// trailing data slot).
//
// If assembling fails, the returned error is an Errors value holding
// up to ten *Error entries.
func Assemble(r io.Reader) (instr.Program, error) {
	var out []instr.Instruction
	var errs Errors

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		toks, err := tokenizeLine(sc.Text(), line)
		if err != nil {
			errs = appendErr(errs, err)
			continue
		}
		if len(toks) == 0 {
			continue
		}
		single, double, err := parseLine(toks, line)
		if err != nil {
			errs = appendErr(errs, err)
			continue
		}
		if double != nil {
			out = append(out, *single, *double)
		} else {
			out = append(out, *single)
		}
	}
	if err := sc.Err(); err != nil {
		return instr.Program{}, err
	}
	if len(errs) > 0 {
		return instr.Program{}, errs
	}
	return instr.NewProgram(out), nil
}

func appendErr(errs Errors, err error) Errors {
	if len(errs) >= maxErrors {
		return errs
	}
	return append(errs, err.(*Error))
}

// operandPattern names which of the lettered operand shapes an
// opcode's line takes, mirroring the disassembler's reverse mapping
// one-for-one so the two directions cannot drift apart.
type operandPattern int

const (
	patNone         operandPattern = iota // A: bare mnemonic
	patArg1                               // B/D: one decimal arg -> arg1
	patArg1Arg2                           // C: two decimal args -> arg1, arg2
	patTypeTag                            // E: type name -> Type
	patTypeAsArg1                         // F: type name -> arg1 (numeric tag value)
	patTypeArg1Arg2Hex                     // G: type + two numbers -> Type, arg1, arg2
	patTypeExt64                          // H: type + one 64-bit number -> two instructions
	patArg1Arg2Arg3                       // I: three numbers -> arg1, arg2, arg3
	patTypeArg1Arg2                       // J: type + two numbers -> Type, arg1, arg2
	patTypeArg1                           // K: type + one number -> Type, arg1
)

var patterns = map[instr.Opcode]operandPattern{
	instr.Bind: patNone, instr.Drop: patNone, instr.Neg: patNone,
	instr.Add: patNone, instr.Sub: patNone, instr.Mul: patNone, instr.Div: patNone, instr.Mod: patNone,
	instr.Eq: patNone, instr.Neq: patNone, instr.Lt: patNone, instr.Gt: patNone, instr.Lte: patNone, instr.Gte: patNone,
	instr.And: patNone, instr.Or: patNone, instr.Not: patNone, instr.Xor: patNone,
	instr.Shl: patNone, instr.Shr: patNone, instr.Implies: patNone,
	instr.ArrayGet: patNone, instr.ArrayLen: patNone,
	instr.Assert: patNone, instr.Ret: patNone, instr.EndFunc: patNone, instr.Exhaust: patNone,
	instr.Nop: patNone, instr.Halt: patNone,

	instr.Ref: patArg1, instr.Match: patArg1, instr.Call: patArg1, instr.Recurse: patArg1,
	instr.Project: patArg1, instr.Pre: patArg1, instr.Post: patArg1, instr.Forall: patArg1,

	instr.Func: patArg1Arg2, instr.Case: patArg1Arg2,

	instr.Param: patTypeTag,

	instr.Typeof: patTypeAsArg1,

	instr.Const: patTypeArg1Arg2Hex,

	instr.ConstExt: patTypeExt64,

	instr.Hash: patArg1Arg2Arg3,

	instr.VariantNew: patTypeArg1Arg2,

	instr.TupleNew: patTypeArg1, instr.ArrayNew: patTypeArg1,
}

// parseLine turns a line's tokens into one instruction, or two for
// CONST_EXT. toks is never empty; blank lines are filtered out by the
// caller before this is reached.
func parseLine(toks []token, line int) (single, double *instr.Instruction, err error) {
	head := toks[0]
	if head.kind != tokIdent {
		return nil, nil, &Error{Kind: UnexpectedToken, Line: line, Token: head.text}
	}
	op, ok := instr.OpcodeByMnemonic(head.text)
	if !ok {
		return nil, nil, &Error{Kind: UnknownOpcode, Line: line, Token: head.text}
	}
	args := toks[1:]
	mnem := op.Mnemonic()

	switch patterns[op] {
	case patNone:
		if err := expectEnd(args, line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, instr.None, 0, 0, 0)
		return &in, nil, nil

	case patArg1:
		a1, err := expectU16(args, 0, line, mnem, 1)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[1:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, instr.None, a1, 0, 0)
		return &in, nil, nil

	case patArg1Arg2:
		a1, err := expectU16(args, 0, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		a2, err := expectU16(args, 1, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[2:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, instr.None, a1, a2, 0)
		return &in, nil, nil

	case patTypeTag:
		tt, err := expectTypeTag(args, 0, line, mnem, 1)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[1:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, tt, 0, 0, 0)
		return &in, nil, nil

	case patTypeAsArg1:
		tt, err := expectTypeTag(args, 0, line, mnem, 1)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[1:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, instr.None, uint16(tt), 0, 0)
		return &in, nil, nil

	case patTypeArg1Arg2Hex:
		tt, err := expectTypeTag(args, 0, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a1, err := expectU16(args, 1, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a2, err := expectU16(args, 2, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[3:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, tt, a1, a2, 0)
		return &in, nil, nil

	case patTypeExt64:
		tt, err := expectTypeTag(args, 0, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		full, err := expectNumber(args, 1, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[2:], line); err != nil {
			return nil, nil, err
		}
		high16 := uint16(full >> 48)
		midHigh := uint16(full >> 32)
		midLow := uint16(full >> 16)
		low16 := uint16(full)
		ext := instr.New(instr.ConstExt, tt, high16, 0, 0)
		data := instr.New(instr.Nop, instr.None, midHigh, midLow, low16)
		return &ext, &data, nil

	case patArg1Arg2Arg3:
		a1, err := expectU16(args, 0, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a2, err := expectU16(args, 1, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a3, err := expectU16(args, 2, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[3:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, instr.None, a1, a2, a3)
		return &in, nil, nil

	case patTypeArg1Arg2:
		tt, err := expectTypeTag(args, 0, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a1, err := expectU16(args, 1, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		a2, err := expectU16(args, 2, line, mnem, 3)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[3:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, tt, a1, a2, 0)
		return &in, nil, nil

	case patTypeArg1:
		tt, err := expectTypeTag(args, 0, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		a1, err := expectU16(args, 1, line, mnem, 2)
		if err != nil {
			return nil, nil, err
		}
		if err := expectEnd(args[2:], line); err != nil {
			return nil, nil, err
		}
		in := instr.New(op, tt, a1, 0, 0)
		return &in, nil, nil
	}

	// Unreachable: every live opcode has an entry in patterns.
	return nil, nil, &Error{Kind: UnknownOpcode, Line: line, Token: head.text}
}

func expectNumber(args []token, idx, line int, opcode string, expected int) (uint64, error) {
	if idx >= len(args) {
		return 0, &Error{Kind: MissingArgument, Line: line, Opcode: opcode, Expected: expected}
	}
	t := args[idx]
	if t.kind != tokNumber {
		return 0, &Error{Kind: UnexpectedToken, Line: line, Token: t.text}
	}
	return t.ival, nil
}

func expectU16(args []token, idx, line int, opcode string, expected int) (uint16, error) {
	n, err := expectNumber(args, idx, line, opcode, expected)
	if err != nil {
		return 0, err
	}
	if n > 0xFFFF {
		return 0, &Error{Kind: InvalidNumber, Line: line, Token: args[idx].text}
	}
	return uint16(n), nil
}

func expectTypeTag(args []token, idx, line int, opcode string, expected int) (instr.TypeTag, error) {
	if idx >= len(args) {
		return 0, &Error{Kind: MissingArgument, Line: line, Opcode: opcode, Expected: expected}
	}
	t := args[idx]
	if t.kind != tokIdent {
		return 0, &Error{Kind: UnexpectedToken, Line: line, Token: t.text}
	}
	tt, ok := instr.TypeTagByName(t.text)
	if !ok {
		return 0, &Error{Kind: UnknownTypeTag, Line: line, Token: t.text}
	}
	return tt, nil
}

func expectEnd(rest []token, line int) error {
	if len(rest) == 0 {
		return nil
	}
	return &Error{Kind: UnexpectedToken, Line: line, Token: rest[0].text}
}
