package verify

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestCheckStackUnderflow(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Add, instr.None, 0, 0, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	}
	ctx, _ := checkStructural(instrs)
	errs := checkStack(instrs, ctx, MatchTypeInfo{})
	if !hasKind(errs, StackUnderflow) {
		t.Fatalf("expected StackUnderflow, got %v", errs)
	}
}

func TestCheckStackUnbalanced(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 1, 0),
		instr.New(instr.Const, instr.I64, 0, 2, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	}
	ctx, _ := checkStructural(instrs)
	errs := checkStack(instrs, ctx, MatchTypeInfo{})
	if !hasKind(errs, UnbalancedStack) {
		t.Fatalf("expected UnbalancedStack, got %v", errs)
	}
}

func TestCheckStackClean(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 1, 0),
		instr.New(instr.Const, instr.I64, 0, 2, 0),
		instr.New(instr.Add, instr.None, 0, 0, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	}
	ctx, _ := checkStructural(instrs)
	if errs := checkStack(instrs, ctx, MatchTypeInfo{}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
