package vm

import (
	"testing"

	"github.com/sefton37/nolang/instr"
)

// buildDoubleFunction returns a program defining a one-parameter
// function that doubles its argument (x -> x+x, no PRE/POST/HASH), then
// calls it with 3 and halts.
func buildDoubleFunction() instr.Program {
	return instr.NewProgram([]instr.Instruction{
		instr.New(instr.Func, instr.None, 1, 5, 0),    // 0: paramCount=1, bodyLen=5
		instr.New(instr.Param, instr.I64, 0, 0, 0),     // 1
		instr.New(instr.Ref, instr.None, 0, 0, 0),      // 2
		instr.New(instr.Ref, instr.None, 0, 0, 0),      // 3
		instr.New(instr.Add, instr.None, 0, 0, 0),      // 4
		instr.New(instr.Ret, instr.None, 0, 0, 0),      // 5
		instr.New(instr.EndFunc, instr.None, 0, 0, 0),  // 6
		instr.New(instr.Const, instr.I64, 0, 3, 0),     // 7: entry point
		instr.New(instr.Call, instr.None, 0, 0, 0),     // 8
		instr.New(instr.Halt, instr.None, 0, 0, 0),     // 9
	})
}

func TestRunCallRet(t *testing.T) {
	m, err := New(buildDoubleFunction())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	i64, ok := result.(instr.ValI64)
	if !ok || int64(i64) != 6 {
		t.Fatalf("Run() = %v, want I64(6)", result)
	}
}

func TestRunPreconditionFailed(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Func, instr.None, 1, 7, 0),    // 0: paramCount=1, bodyLen=7
		instr.New(instr.Param, instr.I64, 0, 0, 0),     // 1
		instr.New(instr.Pre, instr.None, 3, 0, 0),      // 2: 3-instruction PRE body
		instr.New(instr.Ref, instr.None, 0, 0, 0),      // 3
		instr.New(instr.Const, instr.I64, 0, 0, 0),     // 4
		instr.New(instr.Gt, instr.None, 0, 0, 0),       // 5: PRE requires x > 0
		instr.New(instr.Ref, instr.None, 0, 0, 0),      // 6: body, just returns x
		instr.New(instr.Ret, instr.None, 0, 0, 0),      // 7
		instr.New(instr.EndFunc, instr.None, 0, 0, 0),  // 8
		instr.New(instr.Const, instr.I64, 0, 0, 0),     // 9: entry point, x = 0
		instr.New(instr.Call, instr.None, 0, 0, 0),     // 10
		instr.New(instr.Halt, instr.None, 0, 0, 0),     // 11
	})
	m, err := New(prog)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = m.Run()
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != PreconditionFailed {
		t.Fatalf("Run() error = %v, want PreconditionFailed", err)
	}
}
