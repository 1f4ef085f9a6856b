package verify

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestCheckReachabilityUnreachableAfterHalt(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Halt, instr.None, 0, 0, 0),
		instr.New(instr.Nop, instr.None, 0, 0, 0),
	}
	ctx := ProgramContext{ConstExtSlots: map[int]bool{}}
	errs := checkReachability(instrs, ctx)
	if !hasKind(errs, UnreachableInstruction) {
		t.Fatalf("expected UnreachableInstruction, got %v", errs)
	}
}

func TestCheckReachabilityClean(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 1, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	}
	ctx, structErrs := checkStructural(instrs)
	if len(structErrs) != 0 {
		t.Fatalf("unexpected structural errors: %v", structErrs)
	}
	if errs := checkReachability(instrs, ctx); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
