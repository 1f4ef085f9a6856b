package asm

import (
	"strings"
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestAssembleAdditionProgram(t *testing.T) {
	src := "CONST I64 0 5\nCONST I64 0 3\nADD\nHALT\n"
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(prog.Instructions) != 4 {
		t.Fatalf("got %d instructions, want 4", len(prog.Instructions))
	}
	if prog.Instructions[2].Opcode != instr.Add || prog.Instructions[3].Opcode != instr.Halt {
		t.Fatalf("unexpected instructions: %+v", prog.Instructions)
	}
}

func TestAssembleConstExtProducesTwoSlots(t *testing.T) {
	src := "CONST_EXT I64 0x0000123456789abc\n"
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(prog.Instructions))
	}
	ext, data := prog.Instructions[0], prog.Instructions[1]
	if ext.Opcode != instr.ConstExt || ext.Type != instr.I64 || ext.Arg1 != 0x0000 {
		t.Fatalf("ext = %+v", ext)
	}
	if data.Opcode != instr.Nop || data.Arg1 != 0x1234 || data.Arg2 != 0x5678 || data.Arg3 != 0x9abc {
		t.Fatalf("data = %+v", data)
	}
}

func TestAssembleUnknownOpcode(t *testing.T) {
	_, err := Assemble(strings.NewReader("FOOBAR\n"))
	errs, ok := err.(Errors)
	if !ok || len(errs) != 1 || errs[0].Kind != UnknownOpcode {
		t.Fatalf("err = %v, want one UnknownOpcode", err)
	}
}

func TestAssembleUnknownTypeTag(t *testing.T) {
	_, err := Assemble(strings.NewReader("PARAM STRING\n"))
	errs, ok := err.(Errors)
	if !ok || len(errs) != 1 || errs[0].Kind != UnknownTypeTag {
		t.Fatalf("err = %v, want one UnknownTypeTag", err)
	}
}

func TestAssembleMissingArgument(t *testing.T) {
	_, err := Assemble(strings.NewReader("REF\n"))
	errs, ok := err.(Errors)
	if !ok || len(errs) != 1 || errs[0].Kind != MissingArgument || errs[0].Opcode != "REF" {
		t.Fatalf("err = %v, want one MissingArgument for REF", err)
	}
}

func TestAssembleNumberOutOfU16Range(t *testing.T) {
	_, err := Assemble(strings.NewReader("REF 70000\n"))
	errs, ok := err.(Errors)
	if !ok || len(errs) != 1 || errs[0].Kind != InvalidNumber {
		t.Fatalf("err = %v, want one InvalidNumber", err)
	}
}

func TestAssembleCollectsMultipleErrors(t *testing.T) {
	src := "FOOBAR\nREF\nBAZ\n"
	_, err := Assemble(strings.NewReader(src))
	errs, ok := err.(Errors)
	if !ok || len(errs) != 3 {
		t.Fatalf("err = %v, want 3 collected errors", err)
	}
}

func TestAssembleTupleNewAndProject(t *testing.T) {
	src := "CONST I64 0 3\nCONST I64 0 7\nTUPLE_NEW TUPLE 2\nPROJECT 1\nHALT\n"
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if prog.Instructions[2].Opcode != instr.TupleNew || prog.Instructions[2].Arg1 != 2 {
		t.Fatalf("TUPLE_NEW instruction = %+v", prog.Instructions[2])
	}
	if prog.Instructions[3].Opcode != instr.Project || prog.Instructions[3].Arg1 != 1 {
		t.Fatalf("PROJECT instruction = %+v", prog.Instructions[3])
	}
}

func TestAssembleForall(t *testing.T) {
	src := "ARRAY_NEW ARRAY 3\nFORALL 3\nREF 0\nCONST I64 0 0\nGT\nHALT\n"
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if prog.Instructions[1].Opcode != instr.Forall || prog.Instructions[1].Arg1 != 3 {
		t.Fatalf("FORALL instruction = %+v", prog.Instructions[1])
	}
}

func TestAssembleBlankLinesAndCommentsIgnored(t *testing.T) {
	src := "; a comment\n\nADD  ; trailing comment\n\nHALT\n"
	prog, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(prog.Instructions))
	}
}
