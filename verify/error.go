package verify

import (
	"fmt"

	"github.com/sefton37/nolang/instr"
)

// ErrorKind enumerates the 21 distinct verification failures, one per
// check each of the eight passes performs, plus ParamCountMismatch for
// a FUNC whose PARAM prologue count doesn't match its declared
// parameter count.
type ErrorKind int

const (
	MissingHalt ErrorKind = iota
	UnmatchedFunc
	UnmatchedMatch
	NestedFunc
	CaseOrderViolation
	NonZeroUnusedField
	TypeMismatch
	UnresolvableRef
	NonExhaustiveMatch
	DuplicateCase
	HashMismatch
	MissingHash
	PreConditionNotBool
	PostConditionNotBool
	UnreachableInstruction
	StackUnderflow
	UnbalancedStack
	ProgramTooLarge
	RefTooDeep
	RecursionLimitTooHigh
	ParamCountMismatch
)

// Error is a single verification failure. Every variant carries at least
// one instruction index; fields not used by a given Kind are zero.
type Error struct {
	Kind ErrorKind
	At   int

	// Structural / misc
	ExpectedTag int
	FoundTag    int

	// Types
	Expected instr.TypeTag
	Found    instr.TypeTag

	// Refs / limits
	Index       uint16
	BindingDepth uint16

	// Exhaustion
	ExpectedCount uint16
	FoundCount    uint16
	Tag           uint16

	// Hash
	ExpectedHash [6]byte
	ComputedHash [6]byte
	FuncAt       int

	// Stack
	Depth int

	// Limits
	Size  int
	Limit uint16
}

func (e Error) Error() string {
	switch e.Kind {
	case MissingHalt:
		return "program does not end with HALT"
	case UnmatchedFunc:
		return fmt.Sprintf("unmatched FUNC at instruction %d", e.At)
	case UnmatchedMatch:
		return fmt.Sprintf("unmatched MATCH at instruction %d", e.At)
	case NestedFunc:
		return fmt.Sprintf("nested FUNC at instruction %d", e.At)
	case CaseOrderViolation:
		return fmt.Sprintf("CASE order violation at instruction %d: expected tag %d, found %d", e.At, e.ExpectedTag, e.FoundTag)
	case NonZeroUnusedField:
		return fmt.Sprintf("non-zero unused field at instruction %d", e.At)
	case TypeMismatch:
		return fmt.Sprintf("type mismatch at instruction %d: expected %s, found %s", e.At, e.Expected.Name(), e.Found.Name())
	case UnresolvableRef:
		return fmt.Sprintf("unresolvable REF at instruction %d: index %d, binding depth %d", e.At, e.Index, e.BindingDepth)
	case NonExhaustiveMatch:
		return fmt.Sprintf("non-exhaustive match at instruction %d: expected %d cases, found %d", e.At, e.ExpectedCount, e.FoundCount)
	case DuplicateCase:
		return fmt.Sprintf("duplicate CASE tag %d at instruction %d", e.Tag, e.At)
	case HashMismatch:
		return fmt.Sprintf("hash mismatch at instruction %d: expected %x, computed %x", e.At, e.ExpectedHash, e.ComputedHash)
	case MissingHash:
		return fmt.Sprintf("missing HASH in FUNC at instruction %d", e.FuncAt)
	case PreConditionNotBool:
		return fmt.Sprintf("PRE condition does not produce BOOL at instruction %d", e.At)
	case PostConditionNotBool:
		return fmt.Sprintf("POST condition does not produce BOOL at instruction %d", e.At)
	case UnreachableInstruction:
		return fmt.Sprintf("unreachable instruction at %d", e.At)
	case StackUnderflow:
		return fmt.Sprintf("stack underflow at instruction %d", e.At)
	case UnbalancedStack:
		return fmt.Sprintf("unbalanced stack at instruction %d: depth %d, expected 1", e.At, e.Depth)
	case ProgramTooLarge:
		return fmt.Sprintf("program too large: %d instructions (max 65536)", e.Size)
	case RefTooDeep:
		return fmt.Sprintf("REF index %d too deep at instruction %d", e.Index, e.At)
	case RecursionLimitTooHigh:
		return fmt.Sprintf("recursion limit %d too high at instruction %d", e.Limit, e.At)
	case ParamCountMismatch:
		return fmt.Sprintf("PARAM count mismatch in FUNC at %d: expected %d, found %d", e.At, e.ExpectedCount, e.FoundCount)
	default:
		return "unknown verification error"
	}
}
