package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/sefton37/nolang/instr"
	"github.com/sefton37/nolang/internal/ngi"
)

// Disassemble renders prog as canonical assembly text: one instruction
// per line, uppercase mnemonics, no indentation, no comments.
// CONST_EXT occupies one text line but reads two instruction slots.
// Assembling the result reproduces prog exactly when every unused field
// is zero, every CONST_EXT carrier slot is a NOP with type NONE, and
// every TYPEOF's arg1 names a type tag. Nonzero unused fields and a
// carrier's opcode and type bytes are not written to the text, and a
// TYPEOF arg1 that names no type tag is written as NONE.
func Disassemble(prog instr.Program) string {
	var b strings.Builder
	ins := prog.Instructions
	for i := 0; i < len(ins); i++ {
		in := ins[i]
		mnem := in.Opcode.Mnemonic()
		if mnem == "" {
			fmt.Fprintf(&b, "; reserved opcode 0x%02x\n", byte(in.Opcode))
			continue
		}
		switch patterns[in.Opcode] {
		case patNone:
			b.WriteString(mnem)

		case patArg1:
			fmt.Fprintf(&b, "%s %d", mnem, in.Arg1)

		case patArg1Arg2:
			fmt.Fprintf(&b, "%s %d %d", mnem, in.Arg1, in.Arg2)

		case patTypeTag:
			fmt.Fprintf(&b, "%s %s", mnem, in.Type.Name())

		case patTypeAsArg1:
			name := instr.TypeTag(in.Arg1).Name()
			if name == "" {
				name = "NONE"
			}
			fmt.Fprintf(&b, "%s %s", mnem, name)

		case patTypeArg1Arg2Hex:
			fmt.Fprintf(&b, "%s %s 0x%04x 0x%04x", mnem, in.Type.Name(), in.Arg1, in.Arg2)

		case patTypeExt64:
			high16 := uint64(in.Arg1)
			if i+1 < len(ins) {
				next := ins[i+1]
				low48 := instr.ConstExtLow48(next)
				full := high16<<48 | low48
				fmt.Fprintf(&b, "%s %s 0x%016x", mnem, in.Type.Name(), full)
				i++
			} else {
				fmt.Fprintf(&b, "%s %s 0x%016x", mnem, in.Type.Name(), high16<<48)
			}

		case patArg1Arg2Arg3:
			fmt.Fprintf(&b, "%s 0x%04x 0x%04x 0x%04x", mnem, in.Arg1, in.Arg2, in.Arg3)

		case patTypeArg1Arg2:
			fmt.Fprintf(&b, "%s %s %d %d", mnem, in.Type.Name(), in.Arg1, in.Arg2)

		case patTypeArg1:
			fmt.Fprintf(&b, "%s %s %d", mnem, in.Type.Name(), in.Arg1)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteDisassembly writes Disassemble's output to w, tracking the
// first write error rather than returning a partially-written result.
func WriteDisassembly(prog instr.Program, w io.Writer) error {
	ew := ngi.NewErrWriter(w)
	io.WriteString(ew, Disassemble(prog))
	return ew.Err
}
