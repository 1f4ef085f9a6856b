package vm

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

func TestRunMinimalConstHalt(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 5, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	m, err := New(prog)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	i64, ok := result.(instr.ValI64)
	if !ok || int64(i64) != 5 {
		t.Fatalf("Run() = %v, want I64(5)", result)
	}
}

func TestRunHaltWithEmptyStack(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	m, err := New(prog)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = m.Run()
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != HaltWithEmptyStack {
		t.Fatalf("Run() error = %v, want HaltWithEmptyStack", err)
	}
}

func TestRunArithmeticAndDivisionByZero(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 10, 0),
		instr.New(instr.Const, instr.I64, 0, 0, 0),
		instr.New(instr.Div, instr.None, 0, 0, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	m, err := New(prog)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = m.Run()
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != DivisionByZero {
		t.Fatalf("Run() error = %v, want DivisionByZero", err)
	}
}

func TestRunBindRef(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Const, instr.I64, 0, 7, 0),
		instr.New(instr.Bind, instr.None, 0, 0, 0),
		instr.New(instr.Ref, instr.None, 0, 0, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	m, err := New(prog)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	i64, ok := result.(instr.ValI64)
	if !ok || int64(i64) != 7 {
		t.Fatalf("Run() = %v, want I64(7)", result)
	}
}
