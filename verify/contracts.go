package verify

import "github.com/sefton37/nolang/instr"

// checkContracts runs pass 6: every PRE body type-checks under a
// synthetic environment of param_count Unknown bindings and must leave a
// single Bool; every POST body type-checks under param_count+1 Unknown
// bindings (index 0 is the return value) and must also leave a single
// Bool. A REF reaching past either synthetic environment is reported the
// same way a REF past a real binding environment is: UnresolvableRef.
func checkContracts(instrs []instr.Instruction, ctx ProgramContext) []Error {
	var errs []Error

	for _, f := range ctx.Functions {
		preEnv := make([]AbstractType, f.ParamCount)
		for i := range preEnv {
			preEnv[i] = UnknownType
		}
		for _, blk := range f.PreBlocks {
			errs = append(errs, checkBoolBody(instrs, ctx, blk, preEnv, PreConditionNotBool)...)
		}

		postEnv := make([]AbstractType, f.ParamCount+1)
		for i := range postEnv {
			postEnv[i] = UnknownType
		}
		for _, blk := range f.PostBlocks {
			errs = append(errs, checkBoolBody(instrs, ctx, blk, postEnv, PostConditionNotBool)...)
		}
	}

	return errs
}

func checkBoolBody(instrs []instr.Instruction, ctx ProgramContext, blk Block, env []AbstractType, notBoolKind ErrorKind) []Error {
	st := &typeState{instrs: instrs, ctx: ctx, info: MatchTypeInfo{}}
	result := st.simulate(blk.Start, blk.Start+blk.Len, env)

	errs := st.errs
	var top AbstractType
	if len(result) > 0 {
		top = result[len(result)-1]
	}
	if len(result) != 1 || (top.known && top.tag != instr.Bool) {
		errs = append(errs, Error{Kind: notBoolKind, At: blk.Start})
	}
	return errs
}
