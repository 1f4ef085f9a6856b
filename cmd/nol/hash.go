package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/verify"
)

// runHash recomputes the HASH instruction each FUNC block should carry
// and prints one line per block, regardless of whether the block's
// stored HASH (if any) is correct - this is the tool an author runs
// after hand-editing a FUNC body, to learn what to write into HASH
// before the program will pass verification.
func runHash(args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	rest := parseFlags(fs, args)
	if len(rest) != 1 {
		return errors.New("hash: expected exactly one input file")
	}

	prog, err := loadProgram(rest[0])
	if err != nil {
		return err
	}

	ctx, errs := verify.StructuralContext(prog)
	for _, e := range errs {
		fmt.Println(e.Error())
	}
	if ctx.Fatal {
		return errors.New("hash: program structure is too malformed to locate FUNC blocks")
	}

	for i, f := range ctx.Functions {
		wantHashPC := f.EndFuncPC - 2
		if wantHashPC < f.FuncPC || wantHashPC >= f.EndFuncPC {
			fmt.Printf("func %d at %d: body too short to carry a HASH slot\n", i, f.FuncPC)
			continue
		}
		h := verify.HashInstructionFor(prog.Instructions, f.FuncPC, wantHashPC)
		fmt.Printf("func %d at %d: HASH %d %d %d\n", i, f.FuncPC, h.Arg1, h.Arg2, h.Arg3)
	}
	return nil
}
