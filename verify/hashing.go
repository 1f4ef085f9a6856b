package verify

import (
	"github.com/sefton37/nolang/instr"
	"lukechampine.com/blake3"
)

// checkHashing runs pass 4. Canonical form requires HASH to sit exactly
// two instructions before a FUNC block's ENDFUNC, with RET immediately
// after it; a HASH missing from that slot is reported the same way as a
// block with no HASH at all, since either way there's nothing trustworthy
// to compare against.
func checkHashing(instrs []instr.Instruction, ctx ProgramContext) []Error {
	var errs []Error

	for _, f := range ctx.Functions {
		wantHashPC := f.EndFuncPC - 2
		if f.HashPC != wantHashPC || f.HashPC < f.FuncPC {
			errs = append(errs, Error{Kind: MissingHash, FuncAt: f.FuncPC})
			continue
		}

		expected := expectedHash(instrs[f.HashPC])
		computed := computeBlockHash(instrs[f.FuncPC:f.HashPC])
		if expected != computed {
			errs = append(errs, Error{
				Kind:         HashMismatch,
				At:           f.HashPC,
				ExpectedHash: expected,
				ComputedHash: computed,
			})
		}
	}

	return errs
}

func expectedHash(hashInstr instr.Instruction) [6]byte {
	var h [6]byte
	h[0] = byte(hashInstr.Arg1 >> 8)
	h[1] = byte(hashInstr.Arg1)
	h[2] = byte(hashInstr.Arg2 >> 8)
	h[3] = byte(hashInstr.Arg2)
	h[4] = byte(hashInstr.Arg3 >> 8)
	h[5] = byte(hashInstr.Arg3)
	return h
}

func computeBlockHash(block []instr.Instruction) [6]byte {
	buf := make([]byte, 0, len(block)*8)
	for _, in := range block {
		enc := in.Encode()
		buf = append(buf, enc[:]...)
	}
	digest := blake3.Sum256(buf)
	var h [6]byte
	copy(h[:], digest[:6])
	return h
}

// HashInstructionFor computes the HASH instruction that should be stored
// for the function block starting at funcPC and ending (exclusive) at
// hashPC, for use by the CLI's `hash` verb.
func HashInstructionFor(instrs []instr.Instruction, funcPC, hashPC int) instr.Instruction {
	h := computeBlockHash(instrs[funcPC:hashPC])
	arg1 := uint16(h[0])<<8 | uint16(h[1])
	arg2 := uint16(h[2])<<8 | uint16(h[3])
	arg3 := uint16(h[4])<<8 | uint16(h[5])
	return instr.New(instr.Hash, instr.None, arg1, arg2, arg3)
}
