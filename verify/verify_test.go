package verify

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestVerifyMinimalValidProgram(t *testing.T) {
	p := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 5, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	ok, errs := Verify(p)
	if !ok || len(errs) != 0 {
		t.Fatalf("Verify() = (%v, %v), want (true, [])", ok, errs)
	}
}

func TestVerifyEmptyProgramIsFatal(t *testing.T) {
	p := instr.NewProgram(nil)
	ok, errs := Verify(p)
	if ok {
		t.Fatal("Verify() of empty program should not succeed")
	}
	if !hasKind(errs, MissingHalt) {
		t.Fatalf("expected MissingHalt, got %v", errs)
	}
}

func TestVerifyFunctionWithCorrectHash(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Func, instr.None, 0, 3, 0),    // 0: body = [1,2,3]
		instr.New(instr.Const, instr.I64, 0, 5, 0),    // 1
		instr.New(instr.Hash, instr.None, 0, 0, 0),    // 2: placeholder
		instr.New(instr.Ret, instr.None, 0, 0, 0),     // 3
		instr.New(instr.EndFunc, instr.None, 0, 0, 0), // 4
		instr.New(instr.Const, instr.I64, 0, 9, 0),    // 5: entry point
		instr.New(instr.Halt, instr.None, 0, 0, 0),    // 6
	}
	instrs[2] = HashInstructionFor(instrs, 0, 2)
	ok, errs := Verify(instr.NewProgram(instrs))
	if !ok {
		t.Fatalf("expected program to verify cleanly, got %v", errs)
	}
}
