package instr

// Program is an ordered instruction stream. Binary files (.nolb) are a
// raw concatenation of 8-byte instructions with no header.
type Program struct {
	Instructions []Instruction
}

// NewProgram wraps an instruction slice.
func NewProgram(instructions []Instruction) Program {
	return Program{Instructions: instructions}
}

// Len returns the number of instructions.
func (p Program) Len() int { return len(p.Instructions) }

// Encode serializes every instruction into one flat byte slice of length
// 8*len(p.Instructions).
func (p Program) Encode() []byte {
	out := make([]byte, 0, 8*len(p.Instructions))
	for _, ins := range p.Instructions {
		b := ins.Encode()
		out = append(out, b[:]...)
	}
	return out
}

// DecodeProgram decodes a byte slice into a Program. The slice length
// must be a multiple of 8; each 8-byte chunk decodes as one instruction.
func DecodeProgram(b []byte) (Program, error) {
	if len(b)%8 != 0 {
		return Program{}, &DecodeError{Kind: InvalidLength, Length: len(b)}
	}
	instrs := make([]Instruction, 0, len(b)/8)
	for off := 0; off < len(b); off += 8 {
		var slot [8]byte
		copy(slot[:], b[off:off+8])
		ins, err := Decode(slot)
		if err != nil {
			return Program{}, err
		}
		instrs = append(instrs, ins)
	}
	return Program{Instructions: instrs}, nil
}
