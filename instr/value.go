package instr

import (
	"fmt"
	"math"
	"strings"
)

// Value is the VM's runtime discriminated union. Concrete types below are
// the only implementations; a type switch on Value is exhaustive over
// them.
type Value interface {
	// TypeTag reports the runtime type of the value.
	TypeTag() TypeTag
	// String renders the value in its unambiguous textual form
	// (e.g. "I64(-13)", "Bool(true)").
	String() string
	// Equal reports bitwise equality: F64 compares by bit pattern, so two
	// NaNs with identical bits are equal (the VM never lets NaN reach a
	// Value, but Equal is still defined total over the type).
	Equal(Value) bool
}

type (
	ValI64  int64
	ValU64  uint64
	ValF64  float64
	ValBool bool
	// ValChar holds a Unicode scalar value.
	ValChar rune
	ValUnit struct{}
	// ValVariant is a tagged union member: TagCount total alternatives,
	// Tag selects which one, Payload is its carried value.
	ValVariant struct {
		TagCount uint16
		Tag      uint16
		Payload  Value
	}
	ValTuple []Value
	ValArray []Value
)

func (ValI64) TypeTag() TypeTag     { return I64 }
func (ValU64) TypeTag() TypeTag     { return U64 }
func (ValF64) TypeTag() TypeTag     { return F64 }
func (ValBool) TypeTag() TypeTag    { return Bool }
func (ValChar) TypeTag() TypeTag    { return Char }
func (ValUnit) TypeTag() TypeTag    { return Unit }
func (ValVariant) TypeTag() TypeTag { return Variant }
func (ValTuple) TypeTag() TypeTag   { return Tuple }
func (ValArray) TypeTag() TypeTag   { return Array }

func (v ValI64) String() string  { return fmt.Sprintf("I64(%d)", int64(v)) }
func (v ValU64) String() string  { return fmt.Sprintf("U64(%d)", uint64(v)) }
func (v ValF64) String() string  { return fmt.Sprintf("F64(%v)", float64(v)) }
func (v ValBool) String() string { return fmt.Sprintf("Bool(%t)", bool(v)) }
func (v ValChar) String() string { return fmt.Sprintf("Char(%q)", rune(v)) }
func (ValUnit) String() string   { return "Unit" }

func (v ValVariant) String() string {
	return fmt.Sprintf("Variant { tag_count: %d, tag: %d, payload: %s }", v.TagCount, v.Tag, v.Payload.String())
}

func (v ValTuple) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
}

func (v ValArray) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Array[%s]", strings.Join(parts, ", "))
}

func (v ValI64) Equal(o Value) bool {
	ov, ok := o.(ValI64)
	return ok && v == ov
}

func (v ValU64) Equal(o Value) bool {
	ov, ok := o.(ValU64)
	return ok && v == ov
}

// Equal compares F64 bitwise: this lets two values with identical bit
// patterns (including any NaN pattern, which the VM never actually
// produces) compare equal.
func (v ValF64) Equal(o Value) bool {
	ov, ok := o.(ValF64)
	if !ok {
		return false
	}
	return math.Float64bits(float64(v)) == math.Float64bits(float64(ov))
}

func (v ValBool) Equal(o Value) bool {
	ov, ok := o.(ValBool)
	return ok && v == ov
}

func (v ValChar) Equal(o Value) bool {
	ov, ok := o.(ValChar)
	return ok && v == ov
}

func (ValUnit) Equal(o Value) bool {
	_, ok := o.(ValUnit)
	return ok
}

func (v ValVariant) Equal(o Value) bool {
	ov, ok := o.(ValVariant)
	if !ok || v.TagCount != ov.TagCount || v.Tag != ov.Tag {
		return false
	}
	return v.Payload.Equal(ov.Payload)
}

func (v ValTuple) Equal(o Value) bool {
	ov, ok := o.(ValTuple)
	if !ok || len(v) != len(ov) {
		return false
	}
	for i := range v {
		if !v[i].Equal(ov[i]) {
			return false
		}
	}
	return true
}

func (v ValArray) Equal(o Value) bool {
	ov, ok := o.(ValArray)
	if !ok || len(v) != len(ov) {
		return false
	}
	for i := range v {
		if !v[i].Equal(ov[i]) {
			return false
		}
	}
	return true
}
