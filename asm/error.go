package asm

import "fmt"

// ErrorKind enumerates the ways a line of assembly text can fail to
// become an instruction.
type ErrorKind int

const (
	// UnknownOpcode names a token that is not a live mnemonic.
	UnknownOpcode ErrorKind = iota
	// UnknownTypeTag names a token that is not a live type-tag name.
	UnknownTypeTag
	// MissingArgument reports an opcode with fewer tokens than it needs.
	MissingArgument
	// InvalidNumber reports a numeric token that doesn't parse, or
	// parses but overflows the 16-bit argument field it's bound for.
	InvalidNumber
	// UnexpectedToken reports a token in a position nothing expects:
	// a trailing token past an opcode's argument count, or a number
	// where a mnemonic/type name was required.
	UnexpectedToken
)

// Error reports a single malformed line of assembly text.
type Error struct {
	Kind     ErrorKind
	Line     int
	Token    string
	Opcode   string
	Expected int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownOpcode:
		return fmt.Sprintf("line %d: unknown opcode %q", e.Line, e.Token)
	case UnknownTypeTag:
		return fmt.Sprintf("line %d: unknown type tag %q", e.Line, e.Token)
	case MissingArgument:
		return fmt.Sprintf("line %d: %s expects %d argument(s)", e.Line, e.Opcode, e.Expected)
	case InvalidNumber:
		return fmt.Sprintf("line %d: invalid number %q", e.Line, e.Token)
	case UnexpectedToken:
		return fmt.Sprintf("line %d: unexpected token %q", e.Line, e.Token)
	default:
		return fmt.Sprintf("line %d: assembly error", e.Line)
	}
}

// Errors collects every line-level Error found while assembling a
// source, up to a cap, so a single run can report more than the first
// mistake.
type Errors []*Error

const maxErrors = 10

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no errors"
	case 1:
		return es[0].Error()
	default:
		s := es[0].Error()
		return fmt.Sprintf("%s (and %d more error(s))", s, len(es)-1)
	}
}
