package vm

import (
	"math"

	"github.com/sefton37/nolang/instr"
)

// execute is the main dispatch loop. It runs until HALT or a
// RuntimeError; PRE, POST, and FORALL bodies recurse into runRange
// rather than this loop, since their PC movement is ephemeral.
func (v *VM) execute() (instr.Value, error) {
	for {
		if v.caseCtx != nil && v.PC == v.caseCtx.bodyEndPC {
			v.PC = v.caseCtx.afterExhaustPC
			v.caseCtx = nil
			continue
		}
		if v.PC < 0 || v.PC >= len(v.Program) {
			return nil, &RuntimeError{Kind: UnexpectedEndOfProgram, At: v.PC}
		}
		if v.Program[v.PC].Opcode == instr.Halt {
			return v.execHalt()
		}
		if err := v.step(); err != nil {
			return nil, err
		}
	}
}

// runRange evaluates instrs[start:end] (a PRE/POST/FORALL body) against
// the shared operand stack and restores PC to wherever it was before
// the call, since these bodies are self-contained sub-evaluations, not
// a transfer of control.
func (v *VM) runRange(start, end int) error {
	saved := v.PC
	v.PC = start
	for v.PC < end {
		if v.caseCtx != nil && v.PC == v.caseCtx.bodyEndPC {
			v.PC = v.caseCtx.afterExhaustPC
			v.caseCtx = nil
			continue
		}
		if err := v.step(); err != nil {
			v.PC = saved
			return err
		}
	}
	v.PC = saved
	return nil
}

// step executes the single instruction at v.PC and advances it,
// dispatching to the bespoke exec* methods for anything that doesn't
// fit a uniform pop/push shape.
func (v *VM) step() error {
	in := v.Program[v.PC]
	switch in.Opcode {
	case instr.Nop:
		v.PC++

	case instr.Const:
		val, ok := in.ConstValue()
		if !ok {
			return &RuntimeError{Kind: TypeMismatch, At: v.PC}
		}
		if err := v.push(val); err != nil {
			return err
		}
		v.PC++

	case instr.ConstExt:
		if v.PC+1 >= len(v.Program) {
			return &RuntimeError{Kind: UnexpectedEndOfProgram, At: v.PC}
		}
		val, err := in.ConstExtValue(v.Program[v.PC+1])
		if err != nil {
			return &RuntimeError{Kind: TypeMismatch, At: v.PC}
		}
		if err := v.push(val); err != nil {
			return err
		}
		v.PC += 2

	case instr.Bind:
		val, err := v.pop(v.PC)
		if err != nil {
			return err
		}
		v.bind(val)
		v.PC++

	case instr.Ref:
		val, err := v.ref(in.Arg1, v.PC)
		if err != nil {
			return err
		}
		if err := v.push(val); err != nil {
			return err
		}
		v.PC++

	case instr.Drop:
		v.drop()
		v.PC++

	case instr.Add, instr.Sub, instr.Mul, instr.Div, instr.Mod:
		if err := v.execArith(in.Opcode); err != nil {
			return err
		}
		v.PC++

	case instr.Neg:
		if err := v.execNeg(); err != nil {
			return err
		}
		v.PC++

	case instr.Eq, instr.Neq, instr.Lt, instr.Gt, instr.Lte, instr.Gte:
		if err := v.execCompare(in.Opcode); err != nil {
			return err
		}
		v.PC++

	case instr.And, instr.Or, instr.Xor:
		if err := v.execLogic(in.Opcode); err != nil {
			return err
		}
		v.PC++

	case instr.Not:
		if err := v.execNot(); err != nil {
			return err
		}
		v.PC++

	case instr.Shl, instr.Shr:
		if err := v.execShift(in.Opcode); err != nil {
			return err
		}
		v.PC++

	case instr.Implies:
		if err := v.execImplies(); err != nil {
			return err
		}
		v.PC++

	case instr.Match:
		return v.execMatch(in)

	case instr.VariantNew:
		payload, err := v.pop(v.PC)
		if err != nil {
			return err
		}
		if err := v.push(instr.ValVariant{TagCount: in.Arg1, Tag: in.Arg2, Payload: payload}); err != nil {
			return err
		}
		v.PC++

	case instr.TupleNew:
		val, err := v.buildTuple(int(in.Arg1))
		if err != nil {
			return err
		}
		if err := v.push(val); err != nil {
			return err
		}
		v.PC++

	case instr.Project:
		if err := v.execProject(int(in.Arg1)); err != nil {
			return err
		}
		v.PC++

	case instr.ArrayNew:
		val, err := v.buildArray(int(in.Arg1))
		if err != nil {
			return err
		}
		if err := v.push(val); err != nil {
			return err
		}
		v.PC++

	case instr.ArrayGet:
		if err := v.execArrayGet(); err != nil {
			return err
		}
		v.PC++

	case instr.ArrayLen:
		if err := v.execArrayLen(); err != nil {
			return err
		}
		v.PC++

	case instr.Assert:
		ok, err := v.popBool(v.PC)
		if err != nil {
			return err
		}
		if !ok {
			return &RuntimeError{Kind: AssertFailed, At: v.PC}
		}
		v.PC++

	case instr.Typeof:
		if err := v.execTypeof(instr.TypeTag(in.Arg1)); err != nil {
			return err
		}
		v.PC++

	case instr.Forall:
		if err := v.execForall(int(in.Arg1)); err != nil {
			return err
		}

	case instr.Call:
		return v.execCall(in.Arg1)

	case instr.Recurse:
		return v.execRecurse(in.Arg1)

	case instr.Ret:
		return v.execRet()

	case instr.Hash:
		v.PC++

	case instr.Func, instr.EndFunc, instr.Param:
		v.PC++

	case instr.Pre, instr.Post:
		v.PC += 1 + int(in.Arg1)

	case instr.Case, instr.Exhaust:
		v.PC++

	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
	return nil
}

func (v *VM) execHalt() (instr.Value, error) {
	switch len(v.Stack) {
	case 0:
		return nil, &RuntimeError{Kind: HaltWithEmptyStack, At: v.PC}
	case 1:
		return v.Stack[0], nil
	default:
		return nil, &RuntimeError{Kind: HaltWithMultipleValues, At: v.PC, Depth: len(v.Stack)}
	}
}

func (v *VM) execArith(op instr.Opcode) error {
	b, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	result, err := arithOp(op, a, b, v.PC)
	if err != nil {
		return err
	}
	return v.push(result)
}

// arithOp wraps on integer overflow (defined behavior, not an error)
// and rejects NaN/infinite F64 results immediately, before they can
// reach the operand stack.
func arithOp(op instr.Opcode, a, b instr.Value, at int) (instr.Value, error) {
	switch av := a.(type) {
	case instr.ValI64:
		bv, ok := b.(instr.ValI64)
		if !ok {
			return nil, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		switch op {
		case instr.Add:
			return instr.ValI64(int64(av) + int64(bv)), nil
		case instr.Sub:
			return instr.ValI64(int64(av) - int64(bv)), nil
		case instr.Mul:
			return instr.ValI64(int64(av) * int64(bv)), nil
		case instr.Div:
			if bv == 0 {
				return nil, &RuntimeError{Kind: DivisionByZero, At: at}
			}
			return instr.ValI64(int64(av) / int64(bv)), nil
		case instr.Mod:
			if bv == 0 {
				return nil, &RuntimeError{Kind: DivisionByZero, At: at}
			}
			return instr.ValI64(int64(av) % int64(bv)), nil
		}

	case instr.ValU64:
		bv, ok := b.(instr.ValU64)
		if !ok {
			return nil, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		switch op {
		case instr.Add:
			return instr.ValU64(uint64(av) + uint64(bv)), nil
		case instr.Sub:
			return instr.ValU64(uint64(av) - uint64(bv)), nil
		case instr.Mul:
			return instr.ValU64(uint64(av) * uint64(bv)), nil
		case instr.Div:
			if bv == 0 {
				return nil, &RuntimeError{Kind: DivisionByZero, At: at}
			}
			return instr.ValU64(uint64(av) / uint64(bv)), nil
		case instr.Mod:
			if bv == 0 {
				return nil, &RuntimeError{Kind: DivisionByZero, At: at}
			}
			return instr.ValU64(uint64(av) % uint64(bv)), nil
		}

	case instr.ValF64:
		bv, ok := b.(instr.ValF64)
		if !ok {
			return nil, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		if op == instr.Mod {
			return nil, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		var r float64
		switch op {
		case instr.Add:
			r = float64(av) + float64(bv)
		case instr.Sub:
			r = float64(av) - float64(bv)
		case instr.Mul:
			r = float64(av) * float64(bv)
		case instr.Div:
			if bv == 0 {
				return nil, &RuntimeError{Kind: DivisionByZero, At: at}
			}
			r = float64(av) / float64(bv)
		}
		if math.IsNaN(r) {
			return nil, &RuntimeError{Kind: FloatNaN, At: at}
		}
		if math.IsInf(r, 0) {
			return nil, &RuntimeError{Kind: FloatInfinity, At: at}
		}
		return instr.ValF64(r), nil
	}
	return nil, &RuntimeError{Kind: TypeMismatch, At: at}
}

func (v *VM) execNeg() error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	switch av := a.(type) {
	case instr.ValI64:
		return v.push(instr.ValI64(-int64(av)))
	case instr.ValF64:
		r := -float64(av)
		if math.IsNaN(r) {
			return &RuntimeError{Kind: FloatNaN, At: v.PC}
		}
		if math.IsInf(r, 0) {
			return &RuntimeError{Kind: FloatInfinity, At: v.PC}
		}
		return v.push(instr.ValF64(r))
	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
}

func (v *VM) execCompare(op instr.Opcode) error {
	b, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	if op == instr.Eq {
		return v.push(instr.ValBool(a.Equal(b)))
	}
	if op == instr.Neq {
		return v.push(instr.ValBool(!a.Equal(b)))
	}
	cmp, err := compareOrder(a, b, v.PC)
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case instr.Lt:
		result = cmp < 0
	case instr.Gt:
		result = cmp > 0
	case instr.Lte:
		result = cmp <= 0
	case instr.Gte:
		result = cmp >= 0
	}
	return v.push(instr.ValBool(result))
}

// compareOrder ranks a against b. F64 operands are safe to compare with
// plain float64 ordering: the VM never lets NaN or infinity reach the
// stack, so every F64 value here is finite.
func compareOrder(a, b instr.Value, at int) (int, error) {
	switch av := a.(type) {
	case instr.ValI64:
		bv, ok := b.(instr.ValI64)
		if !ok {
			return 0, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		return cmpInt64(int64(av), int64(bv)), nil
	case instr.ValU64:
		bv, ok := b.(instr.ValU64)
		if !ok {
			return 0, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		return cmpUint64(uint64(av), uint64(bv)), nil
	case instr.ValF64:
		bv, ok := b.(instr.ValF64)
		if !ok {
			return 0, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		return cmpFloat64(float64(av), float64(bv)), nil
	case instr.ValChar:
		bv, ok := b.(instr.ValChar)
		if !ok {
			return 0, &RuntimeError{Kind: TypeMismatch, At: at}
		}
		return cmpInt64(int64(av), int64(bv)), nil
	default:
		return 0, &RuntimeError{Kind: TypeMismatch, At: at}
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v *VM) execLogic(op instr.Opcode) error {
	b, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	if ab, ok := a.(instr.ValBool); ok {
		bb, ok := b.(instr.ValBool)
		if !ok {
			return &RuntimeError{Kind: TypeMismatch, At: v.PC}
		}
		var r bool
		switch op {
		case instr.And:
			r = bool(ab) && bool(bb)
		case instr.Or:
			r = bool(ab) || bool(bb)
		case instr.Xor:
			r = bool(ab) != bool(bb)
		}
		return v.push(instr.ValBool(r))
	}
	switch av := a.(type) {
	case instr.ValI64:
		bv, ok := b.(instr.ValI64)
		if !ok {
			return &RuntimeError{Kind: TypeMismatch, At: v.PC}
		}
		var r int64
		switch op {
		case instr.And:
			r = int64(av) & int64(bv)
		case instr.Or:
			r = int64(av) | int64(bv)
		case instr.Xor:
			r = int64(av) ^ int64(bv)
		}
		return v.push(instr.ValI64(r))
	case instr.ValU64:
		bv, ok := b.(instr.ValU64)
		if !ok {
			return &RuntimeError{Kind: TypeMismatch, At: v.PC}
		}
		var r uint64
		switch op {
		case instr.And:
			r = uint64(av) & uint64(bv)
		case instr.Or:
			r = uint64(av) | uint64(bv)
		case instr.Xor:
			r = uint64(av) ^ uint64(bv)
		}
		return v.push(instr.ValU64(r))
	}
	return &RuntimeError{Kind: TypeMismatch, At: v.PC}
}

func (v *VM) execNot() error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	switch av := a.(type) {
	case instr.ValBool:
		return v.push(instr.ValBool(!bool(av)))
	case instr.ValI64:
		return v.push(instr.ValI64(^int64(av)))
	case instr.ValU64:
		return v.push(instr.ValU64(^uint64(av)))
	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
}

func (v *VM) execShift(op instr.Opcode) error {
	b, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	var shift uint64
	switch bv := b.(type) {
	case instr.ValI64:
		shift = uint64(bv)
	case instr.ValU64:
		shift = uint64(bv)
	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
	switch av := a.(type) {
	case instr.ValI64:
		var r int64
		if op == instr.Shl {
			r = int64(av) << shift
		} else {
			r = int64(av) >> shift
		}
		return v.push(instr.ValI64(r))
	case instr.ValU64:
		var r uint64
		if op == instr.Shl {
			r = uint64(av) << shift
		} else {
			r = uint64(av) >> shift
		}
		return v.push(instr.ValU64(r))
	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
}

func (v *VM) execImplies() error {
	b, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	ab, ok := a.(instr.ValBool)
	if !ok {
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
	bb, ok := b.(instr.ValBool)
	if !ok {
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
	return v.push(instr.ValBool(!bool(ab) || bool(bb)))
}

// buildTuple pops n values and returns them as a Tuple with the last
// popped in field 0, per TUPLE_NEW's field-ordering rule. ARRAY_NEW
// follows the same convention for consistency, though no ordering is
// mandated for arrays.
func (v *VM) buildTuple(n int) (instr.Value, error) {
	fields := make([]instr.Value, n)
	for i := 0; i < n; i++ {
		val, err := v.pop(v.PC)
		if err != nil {
			return nil, err
		}
		fields[n-1-i] = val
	}
	return instr.ValTuple(fields), nil
}

func (v *VM) buildArray(n int) (instr.Value, error) {
	elems := make([]instr.Value, n)
	for i := 0; i < n; i++ {
		val, err := v.pop(v.PC)
		if err != nil {
			return nil, err
		}
		elems[n-1-i] = val
	}
	return instr.ValArray(elems), nil
}

func (v *VM) execProject(field int) error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	tup, ok := a.(instr.ValTuple)
	if !ok {
		return &RuntimeError{Kind: ProjectOnNonTuple, At: v.PC}
	}
	if field < 0 || field >= len(tup) {
		return &RuntimeError{Kind: ProjectOutOfBounds, At: v.PC, Field: field, Size: len(tup)}
	}
	return v.push(tup[field])
}

func (v *VM) execArrayGet() error {
	idxVal, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	arrVal, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	idx, ok := idxVal.(instr.ValU64)
	if !ok {
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}
	arr, ok := arrVal.(instr.ValArray)
	if !ok {
		return &RuntimeError{Kind: NotAnArray, At: v.PC}
	}
	if uint64(idx) >= uint64(len(arr)) {
		return &RuntimeError{Kind: ArrayIndexOutOfBounds, At: v.PC, Index: uint16(idx), Size: len(arr)}
	}
	return v.push(arr[idx])
}

func (v *VM) execArrayLen() error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	arr, ok := a.(instr.ValArray)
	if !ok {
		return &RuntimeError{Kind: NotAnArray, At: v.PC}
	}
	return v.push(instr.ValU64(len(arr)))
}

func (v *VM) execTypeof(tag instr.TypeTag) error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	if err := v.push(a); err != nil {
		return err
	}
	return v.push(instr.ValBool(a.TypeTag() == tag))
}

// execForall pops an Array and evaluates the predicate body inline
// after it (bodyLen instructions long) once per element, with the
// element bound at REF index 0 for the duration of that one evaluation.
// It short-circuits to Bool(false) on the first element whose body
// doesn't leave Bool(true).
func (v *VM) execForall(bodyLen int) error {
	a, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	arr, ok := a.(instr.ValArray)
	if !ok {
		return &RuntimeError{Kind: NotAnArray, At: v.PC}
	}
	bodyStart := v.PC + 1
	bodyEnd := bodyStart + bodyLen

	result := true
	for _, elem := range arr {
		v.bind(elem)
		if err := v.runRange(bodyStart, bodyEnd); err != nil {
			v.drop()
			return err
		}
		ok, popErr := v.popBool(v.PC)
		v.drop()
		if popErr != nil {
			return popErr
		}
		if !ok {
			result = false
			break
		}
	}

	if err := v.push(instr.ValBool(result)); err != nil {
		return err
	}
	v.PC = bodyEnd
	return nil
}

func (v *VM) functionArgs(paramCount uint16) error {
	for i := uint16(0); i < paramCount; i++ {
		val, err := v.pop(v.PC)
		if err != nil {
			return err
		}
		v.bind(val)
	}
	return nil
}

func (v *VM) execCall(k uint16) error {
	fn, ok := v.functionByIndex(k)
	if !ok {
		return &RuntimeError{Kind: UnknownFunction, At: v.PC, Index: k}
	}
	return v.callFunction(fn, k, 0)
}

func (v *VM) execRecurse(d uint16) error {
	if len(v.Frames) == 0 {
		return &RuntimeError{Kind: UnknownFunction, At: v.PC}
	}
	cur := v.Frames[len(v.Frames)-1]
	newDepth := cur.RecursionDepth + 1
	if newDepth > int(d) {
		return &RuntimeError{Kind: RecursionDepthExceeded, At: v.PC, Depth: newDepth, Limit: d}
	}
	fn, ok := v.functionByIndex(cur.FuncIndex)
	if !ok {
		return &RuntimeError{Kind: UnknownFunction, At: v.PC, Index: cur.FuncIndex}
	}
	return v.callFunction(fn, cur.FuncIndex, newDepth)
}

// callFunction pops fn.ParamCount arguments (the last one popped ends
// up bound at index 0, matching the order v.bind naturally produces),
// runs its PRE ranges, pushes a CallFrame, and jumps to its body.
func (v *VM) callFunction(fn FunctionInfo, idx uint16, recursionDepth int) error {
	returnPC := v.PC + 1
	if err := v.functionArgs(fn.ParamCount); err != nil {
		return err
	}
	envDepth := len(v.Env) - int(fn.ParamCount)

	for _, r := range fn.PreRanges {
		if err := v.runRange(r.Start, r.Start+r.Len); err != nil {
			return err
		}
		ok, err := v.popBool(v.PC)
		if err != nil {
			return err
		}
		if !ok {
			return &RuntimeError{Kind: PreconditionFailed, At: v.PC}
		}
	}

	v.Frames = append(v.Frames, CallFrame{
		ReturnPC:       returnPC,
		EnvDepth:       envDepth,
		FuncIndex:      idx,
		RecursionDepth: recursionDepth,
	})
	v.PC = fn.BodyStart
	return nil
}

// execRet pops the return value, runs the function's POST ranges with
// it temporarily bound at index 0, then unwinds the binding environment
// and call stack back to the caller.
func (v *VM) execRet() error {
	if len(v.Frames) == 0 {
		return &RuntimeError{Kind: UnknownFunction, At: v.PC}
	}
	frame := v.Frames[len(v.Frames)-1]

	retVal, err := v.pop(v.PC)
	if err != nil {
		return err
	}
	v.bind(retVal)

	if fn, ok := v.functionByIndex(frame.FuncIndex); ok {
		for _, r := range fn.PostRanges {
			if err := v.runRange(r.Start, r.Start+r.Len); err != nil {
				return err
			}
			ok, err := v.popBool(v.PC)
			if err != nil {
				return err
			}
			if !ok {
				return &RuntimeError{Kind: PostconditionFailed, At: v.PC}
			}
		}
	}

	for len(v.Env) > frame.EnvDepth {
		v.drop()
	}
	v.Frames = v.Frames[:len(v.Frames)-1]
	v.PC = frame.ReturnPC
	return v.push(retVal)
}

// execMatch pops the subject, extracts its runtime tag, and scans the
// MATCH's CASE arms linearly. On a hit it installs a caseContext so the
// main dispatch loop can skip the unmatched arms once it reaches the
// end of the matched body, rather than restructuring control flow.
func (v *VM) execMatch(in instr.Instruction) error {
	subject, err := v.pop(v.PC)
	if err != nil {
		return err
	}

	var tag uint16
	var payload instr.Value
	switch s := subject.(type) {
	case instr.ValBool:
		if bool(s) {
			tag = 1
		}
	case instr.ValVariant:
		tag = s.Tag
		payload = s.Payload
	default:
		return &RuntimeError{Kind: TypeMismatch, At: v.PC}
	}

	n := in.Arg1
	pc := v.PC + 1
	for i := uint16(0); i < n; i++ {
		if pc >= len(v.Program) || v.Program[pc].Opcode != instr.Case {
			return &RuntimeError{Kind: InvalidCaseTag, At: v.PC}
		}
		c := v.Program[pc]
		bodyStart := pc + 1
		bodyEnd := bodyStart + int(c.Arg2)
		if c.Arg1 == tag {
			after := skipRemainingCases(v.Program, bodyEnd, n-i-1)
			v.caseCtx = &caseContext{bodyEndPC: bodyEnd, afterExhaustPC: after}
			if payload != nil {
				if err := v.push(payload); err != nil {
					return err
				}
			}
			v.PC = bodyStart
			return nil
		}
		pc = bodyEnd
	}
	return &RuntimeError{Kind: InvalidCaseTag, At: v.PC}
}

// skipRemainingCases walks past the remaining CASE arms after a match
// and returns the index after the paired EXHAUST, best-effort.
func skipRemainingCases(prog []instr.Instruction, pc int, remaining uint16) int {
	for i := uint16(0); i < remaining; i++ {
		if pc >= len(prog) || prog[pc].Opcode != instr.Case {
			return pc
		}
		pc = pc + 1 + int(prog[pc].Arg2)
	}
	if pc < len(prog) && prog[pc].Opcode == instr.Exhaust {
		return pc + 1
	}
	return pc
}
