package verify

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestCheckLimitsProgramTooLarge(t *testing.T) {
	instrs := make([]instr.Instruction, MaxProgramSize+1)
	for i := range instrs {
		instrs[i] = instr.New(instr.Nop, instr.None, 0, 0, 0)
	}
	errs := checkLimits(instrs)
	if !hasKind(errs, ProgramTooLarge) {
		t.Fatalf("expected ProgramTooLarge, got %v", errs)
	}
}

func TestCheckLimitsRefTooDeep(t *testing.T) {
	instrs := []instr.Instruction{instr.New(instr.Ref, instr.None, MaxRefIndex+1, 0, 0)}
	errs := checkLimits(instrs)
	if !hasKind(errs, RefTooDeep) {
		t.Fatalf("expected RefTooDeep, got %v", errs)
	}
}

func TestCheckLimitsRecursionLimitTooHigh(t *testing.T) {
	instrs := []instr.Instruction{instr.New(instr.Recurse, instr.None, MaxRecursionLimit+1, 0, 0)}
	errs := checkLimits(instrs)
	if !hasKind(errs, RecursionLimitTooHigh) {
		t.Fatalf("expected RecursionLimitTooHigh, got %v", errs)
	}
}

func TestCheckLimitsClean(t *testing.T) {
	instrs := []instr.Instruction{
		instr.New(instr.Ref, instr.None, 0, 0, 0),
		instr.New(instr.Recurse, instr.None, 1, 0, 0),
	}
	if errs := checkLimits(instrs); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func hasKind(errs []Error, k ErrorKind) bool {
	for _, e := range errs {
		if e.Kind == k {
			return true
		}
	}
	return false
}
