// Package verify implements the eight-pass static verifier: given a
// decoded program, it proves (or disproves) that the virtual machine
// cannot encounter a stack, type, or structural fault while executing
// it. The verifier never faults itself - every input, however malformed,
// produces a result.
package verify

import "github.com/sefton37/nolang/instr"

// Verify runs all eight passes over p in fixed order and reports every
// error found. It returns ok=true only when every pass is clean. Passes
// 3 through 8 are skipped when pass 2 (structural) finds the program so
// badly malformed - an unmatched FUNC or MATCH - that their positional
// reasoning about the program would be meaningless; in that case only
// the errors of passes 1 and 2 are returned.
func Verify(p instr.Program) (bool, []Error) {
	var errs []Error

	errs = append(errs, checkLimits(p.Instructions)...)

	ctx, structErrs := checkStructural(p.Instructions)
	errs = append(errs, structErrs...)
	if ctx.Fatal {
		return false, errs
	}

	errs = append(errs, checkExhaustion(ctx)...)
	errs = append(errs, checkHashing(p.Instructions, ctx)...)

	typeErrs, matchInfo := checkTypes(p.Instructions, ctx)
	errs = append(errs, typeErrs...)

	errs = append(errs, checkContracts(p.Instructions, ctx)...)
	errs = append(errs, checkStack(p.Instructions, ctx, matchInfo)...)
	errs = append(errs, checkReachability(p.Instructions, ctx)...)

	return len(errs) == 0, errs
}
