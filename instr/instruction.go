package instr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Instruction is the fixed-width unit of a NoLang program: opcode and
// type_tag each one byte, arg1/arg2/arg3 each sixteen bits, packed
// little-endian into exactly eight bytes.
type Instruction struct {
	Opcode  Opcode
	Type    TypeTag
	Arg1    uint16
	Arg2    uint16
	Arg3    uint16
}

// New builds an Instruction from its fields, performing no validation —
// validation is the verifier's job; format core decode only checks
// opcode and type-tag membership.
func New(op Opcode, t TypeTag, a1, a2, a3 uint16) Instruction {
	return Instruction{Opcode: op, Type: t, Arg1: a1, Arg2: a2, Arg3: a3}
}

// Encode packs i into its canonical 8-byte little-endian representation.
func (i Instruction) Encode() [8]byte {
	var b [8]byte
	b[0] = byte(i.Opcode)
	b[1] = byte(i.Type)
	binary.LittleEndian.PutUint16(b[2:4], i.Arg1)
	binary.LittleEndian.PutUint16(b[4:6], i.Arg2)
	binary.LittleEndian.PutUint16(b[6:8], i.Arg3)
	return b
}

// Decode unpacks an 8-byte slot into an Instruction, validating that the
// opcode and type-tag bytes name live values. Unused-field-is-zero and
// every other semantic constraint is left to the verifier.
func Decode(b [8]byte) (Instruction, error) {
	op, err := ParseOpcode(b[0])
	if err != nil {
		return Instruction{}, err
	}
	t, err := ParseTypeTag(b[1])
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Opcode: op,
		Type:   t,
		Arg1:   binary.LittleEndian.Uint16(b[2:4]),
		Arg2:   binary.LittleEndian.Uint16(b[4:6]),
		Arg3:   binary.LittleEndian.Uint16(b[6:8]),
	}, nil
}

// ConstValue extracts the Value a CONST instruction denotes, per its
// per-type-tag decoding rules. It returns (nil, false) for any opcode
// other than CONST, for a type tag CONST can't carry (F64 or a
// composite), or for a Char arg1 that isn't a valid Unicode scalar value.
func (i Instruction) ConstValue() (Value, bool) {
	if i.Opcode != Const {
		return nil, false
	}
	switch i.Type {
	case I64:
		raw32 := uint32(i.Arg1)<<16 | uint32(i.Arg2)
		return ValI64(int64(int32(raw32))), true
	case U64:
		raw32 := uint32(i.Arg1)<<16 | uint32(i.Arg2)
		return ValU64(uint64(raw32)), true
	case Bool:
		return ValBool(i.Arg1 != 0), true
	case Char:
		r := rune(i.Arg1)
		if !isValidScalar(r) {
			return nil, false
		}
		return ValChar(r), true
	case Unit:
		return ValUnit{}, true
	default:
		return nil, false
	}
}

func isValidScalar(r rune) bool {
	if r < 0 || r > 0x10FFFF {
		return false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return false // surrogate range: not a scalar value
	}
	return true
}

// ConstExtLow48 reads the trailing carrier slot of a CONST_EXT pair: the
// low 48 bits of the payload come from that slot's arg1/arg2/arg3 fields
// only — its opcode and type_tag bytes are not interpreted (the canonical
// encoder always emits NOP/None there; the decoder doesn't enforce it).
func ConstExtLow48(carrier Instruction) uint64 {
	return uint64(carrier.Arg1)<<32 | uint64(carrier.Arg2)<<16 | uint64(carrier.Arg3)
}

// ConstExtValue combines a CONST_EXT instruction with its trailing carrier
// slot into the Value it denotes.
func (i Instruction) ConstExtValue(carrier Instruction) (Value, error) {
	if i.Opcode != ConstExt {
		return nil, fmt.Errorf("ConstExtValue called on non-CONST_EXT instruction")
	}
	full := uint64(i.Arg1)<<48 | ConstExtLow48(carrier)
	switch i.Type {
	case I64:
		return ValI64(int64(full)), nil
	case U64:
		return ValU64(full), nil
	case F64:
		f := math.Float64frombits(full)
		if math.IsNaN(f) {
			return nil, fmt.Errorf("CONST_EXT F64 payload is NaN")
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("CONST_EXT F64 payload is infinite")
		}
		return ValF64(f), nil
	default:
		return nil, fmt.Errorf("CONST_EXT does not support type tag %s", i.Type.Name())
	}
}

// FromValue produces the canonical CONST or CONST_EXT (+ carrier)
// encoding for v: the smallest encoding that represents it exactly. For
// CONST_EXT it returns two instructions; for CONST, one.
func FromValue(v Value) ([]Instruction, error) {
	switch x := v.(type) {
	case ValI64:
		n := int64(x)
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			u := uint32(int32(n))
			return []Instruction{New(Const, I64, uint16(u>>16), uint16(u), 0)}, nil
		}
		return extPair(I64, uint64(n)), nil
	case ValU64:
		n := uint64(x)
		if n <= math.MaxUint32 {
			return []Instruction{New(Const, U64, uint16(n>>16), uint16(n), 0)}, nil
		}
		return extPair(U64, n), nil
	case ValF64:
		f := float64(x)
		if math.IsNaN(f) {
			return nil, fmt.Errorf("cannot encode NaN as a constant")
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot encode infinity as a constant")
		}
		return extPair(F64, math.Float64bits(f)), nil
	case ValBool:
		var a1 uint16
		if bool(x) {
			a1 = 1
		}
		return []Instruction{New(Const, Bool, a1, 0, 0)}, nil
	case ValChar:
		if rune(x) > 0xFFFF {
			return nil, fmt.Errorf("char %U does not fit CONST's 16-bit operand", rune(x))
		}
		return []Instruction{New(Const, Char, uint16(rune(x)), 0, 0)}, nil
	case ValUnit:
		return []Instruction{New(Const, Unit, 0, 0, 0)}, nil
	default:
		return nil, fmt.Errorf("value of type %s has no constant encoding", v.TypeTag().Name())
	}
}

func extPair(t TypeTag, full uint64) []Instruction {
	high16 := uint16(full >> 48)
	low48 := full & 0xFFFFFFFFFFFF
	carrier := New(Nop, None, uint16(low48>>32), uint16(low48>>16), uint16(low48))
	return []Instruction{New(ConstExt, t, high16, 0, 0), carrier}
}
