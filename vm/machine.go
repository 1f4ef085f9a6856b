// Package vm executes NoLang bytecode. It is total on any input: a
// program that failed verify.Verify never causes a panic or an invalid
// memory access, though it may surface a RuntimeError or an incorrect
// result where a verified program would not.
package vm

import (
	"github.com/pkg/errors"
	"github.com/sefton37/nolang/instr"
)

// Range is a half-open instruction index range [Start, Start+Len).
type Range struct {
	Start int
	Len   int
}

// FunctionInfo is what the VM's own prelude scan records about one FUNC
// block. It is deliberately a smaller, more defensive cousin of
// verify.FuncInfo: the VM must keep running on programs the verifier
// would reject, so this scan reports as much as it can reconstruct
// rather than failing outright on the first irregularity.
type FunctionInfo struct {
	FuncPC     int
	ParamCount uint16
	BodyStart  int
	EndFuncPC  int
	RetPC      int
	PreRanges  []Range
	PostRanges []Range
}

// CallFrame is pushed by CALL/RECURSE and popped by RET.
type CallFrame struct {
	ReturnPC       int
	EnvDepth       int
	FuncIndex      uint16
	RecursionDepth int
}

// caseContext lets the dispatch loop skip the unmatched CASE arms of a
// MATCH without altering control flow for every other instruction: once
// PC reaches bodyEndPC it jumps straight to afterExhaustPC.
type caseContext struct {
	bodyEndPC     int
	afterExhaustPC int
}

// VM is one NoLang machine instance: a program, an operand stack, a
// binding environment, and a call stack.
type VM struct {
	Program   []instr.Instruction
	PC        int
	Stack     []instr.Value
	Env       []instr.Value
	Frames    []CallFrame
	Functions []FunctionInfo

	maxStack int
	caseCtx  *caseContext
	insCount int64
}

const defaultMaxStack = 4096

// Option configures a VM at construction time.
type Option func(*VM) error

// MaxStackDepth sets the maximum operand stack depth before Run returns
// StackOverflow. The default is 4096.
func MaxStackDepth(n int) Option {
	return func(v *VM) error {
		v.maxStack = n
		return nil
	}
}

// SetOptions applies opts in order.
func (v *VM) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return err
		}
	}
	return nil
}

// New builds a VM for prog. It runs its own prelude scan to locate FUNC
// blocks and the entry point rather than depending on a prior
// verify.Verify call, since Run must remain total even when the program
// was never verified.
func New(prog instr.Program, opts ...Option) (*VM, error) {
	funcs, entry := scanFunctions(prog.Instructions)
	v := &VM{
		Program:   prog.Instructions,
		PC:        entry,
		Functions: funcs,
		maxStack:  defaultMaxStack,
	}
	if err := v.SetOptions(opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// scanFunctions walks the leading run of FUNC blocks, exactly the shape
// the canonical encoder produces. It stops at the first instruction that
// isn't a well-formed FUNC block - either because the prelude has ended
// or because the program is malformed - and reports that point as the
// entry point. This mirrors verify/structural.go's scanFuncBlock with
// every error-reporting path replaced by "stop scanning" instead.
func scanFunctions(prog []instr.Instruction) ([]FunctionInfo, int) {
	var funcs []FunctionInfo
	pc := 0
	for pc < len(prog) && prog[pc].Opcode == instr.Func {
		fi, next, ok := scanOneFunc(prog, pc)
		if !ok {
			break
		}
		funcs = append(funcs, fi)
		pc = next
	}
	return funcs, pc
}

// scanOneFunc consumes the FUNC block starting at funcPC, best-effort.
func scanOneFunc(prog []instr.Instruction, funcPC int) (FunctionInfo, int, bool) {
	head := prog[funcPC]
	bodyLen := int(head.Arg2)
	endFuncPC := funcPC + 1 + bodyLen
	if endFuncPC >= len(prog) || prog[endFuncPC].Opcode != instr.EndFunc {
		return FunctionInfo{}, 0, false
	}

	pc := funcPC + 1
	for pc < endFuncPC && prog[pc].Opcode == instr.Param {
		pc++
	}

	var preRanges []Range
	for pc < endFuncPC && prog[pc].Opcode == instr.Pre {
		l := int(prog[pc].Arg1)
		preRanges = append(preRanges, Range{Start: pc + 1, Len: l})
		pc += 1 + l
	}

	var postRanges []Range
	for pc < endFuncPC && prog[pc].Opcode == instr.Post {
		l := int(prog[pc].Arg1)
		postRanges = append(postRanges, Range{Start: pc + 1, Len: l})
		pc += 1 + l
	}

	bodyStart := pc
	retPC := -1
	for p := bodyStart; p < endFuncPC; {
		switch prog[p].Opcode {
		case instr.ConstExt:
			p += 2
		case instr.Ret:
			retPC = p
			p++
		default:
			p++
		}
	}

	fi := FunctionInfo{
		FuncPC:     funcPC,
		ParamCount: head.Arg1,
		BodyStart:  bodyStart,
		EndFuncPC:  endFuncPC,
		RetPC:      retPC,
		PreRanges:  preRanges,
		PostRanges: postRanges,
	}
	return fi, endFuncPC + 1, true
}

func (v *VM) functionByIndex(k uint16) (FunctionInfo, bool) {
	if int(k) >= len(v.Functions) {
		return FunctionInfo{}, false
	}
	return v.Functions[k], true
}

func (v *VM) push(val instr.Value) error {
	if len(v.Stack) >= v.maxStack {
		return &RuntimeError{Kind: StackOverflow, At: v.PC}
	}
	v.Stack = append(v.Stack, val)
	return nil
}

func (v *VM) pop(at int) (instr.Value, error) {
	if len(v.Stack) == 0 {
		return nil, &RuntimeError{Kind: StackUnderflow, At: at}
	}
	val := v.Stack[len(v.Stack)-1]
	v.Stack = v.Stack[:len(v.Stack)-1]
	return val, nil
}

func (v *VM) popBool(at int) (bool, error) {
	val, err := v.pop(at)
	if err != nil {
		return false, err
	}
	b, ok := val.(instr.ValBool)
	if !ok {
		return false, &RuntimeError{Kind: TypeofMismatch, At: at}
	}
	return bool(b), nil
}

// bind prepends val at binding index 0, shifting every other binding up
// by one index.
func (v *VM) bind(val instr.Value) {
	v.Env = append(v.Env, nil)
	copy(v.Env[1:], v.Env[:len(v.Env)-1])
	v.Env[0] = val
}

// drop removes the binding at index 0.
func (v *VM) drop() {
	if len(v.Env) == 0 {
		return
	}
	v.Env = v.Env[1:]
}

func (v *VM) ref(k uint16, at int) (instr.Value, error) {
	if int(k) >= len(v.Env) {
		return nil, &RuntimeError{Kind: BindingUnderflow, At: at, Index: k}
	}
	return v.Env[k], nil
}

// Run executes the program from its entry point to HALT and returns the
// single value left on the stack. Like db47h-ngaro's Instance.Run, a
// panic anywhere in the dispatch loop is recovered and reported as an
// error rather than propagated, so a bug in one exec* method can't take
// down a caller embedding the VM.
func (v *VM) Run() (result instr.Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "recovered error at pc=%d/%d, stack depth %d", v.PC, len(v.Program), len(v.Stack))
			default:
				err = errors.Errorf("recovered panic at pc=%d/%d, stack depth %d: %v", v.PC, len(v.Program), len(v.Stack), e)
			}
		}
	}()
	return v.execute()
}
