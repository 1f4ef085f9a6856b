package instr

import (
	"math"
	"testing"
)

func TestValueStrings(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{ValI64(-13), "I64(-13)"},
		{ValBool(true), "Bool(true)"},
		{ValUnit{}, "Unit"},
		{ValTuple{ValI64(3), ValBool(true)}, "Tuple(I64(3), Bool(true))"},
		{ValArray{ValI64(1), ValI64(2)}, "Array[I64(1), I64(2)]"},
		{ValVariant{TagCount: 2, Tag: 0, Payload: ValI64(5)}, "Variant { tag_count: 2, tag: 0, payload: I64(5) }"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestF64EqualityIsBitwise(t *testing.T) {
	nan := math.NaN()
	a := ValF64(nan)
	b := ValF64(nan)
	if !a.Equal(b) {
		t.Error("two NaNs with identical bit patterns should compare equal")
	}
	if ValF64(0.0).Equal(ValF64(math.Copysign(0, -1))) {
		// -0.0 and 0.0 have different bit patterns
		t.Error("0.0 and -0.0 should not compare equal bitwise")
	}
}

func TestTupleEqualElementwise(t *testing.T) {
	a := ValTuple{ValI64(1), ValBool(true)}
	b := ValTuple{ValI64(1), ValBool(true)}
	c := ValTuple{ValI64(1), ValBool(false)}
	if !a.Equal(b) {
		t.Error("identical tuples should be equal")
	}
	if a.Equal(c) {
		t.Error("differing tuples should not be equal")
	}
}

func TestVariantEqualRequiresSameTag(t *testing.T) {
	a := ValVariant{TagCount: 2, Tag: 0, Payload: ValI64(1)}
	b := ValVariant{TagCount: 2, Tag: 1, Payload: ValI64(1)}
	if a.Equal(b) {
		t.Error("variants with different tags should not be equal")
	}
}

func TestIsNumericOnValues(t *testing.T) {
	if !ValI64(0).TypeTag().IsNumeric() {
		t.Error("I64 should be numeric")
	}
	if ValBool(true).TypeTag().IsNumeric() {
		t.Error("Bool should not be numeric")
	}
}
