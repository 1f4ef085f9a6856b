package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/instr"
	"github.com/sefton37/nolang/verify"
)

func loadProgram(path string) (instr.Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return instr.Program{}, errors.Wrap(err, "load")
	}
	prog, err := instr.DecodeProgram(b)
	if err != nil {
		return instr.Program{}, errors.Wrap(err, "load")
	}
	return prog, nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	rest := parseFlags(fs, args)
	if len(rest) != 1 {
		return errors.New("verify: expected exactly one input file")
	}

	prog, err := loadProgram(rest[0])
	if err != nil {
		return err
	}

	ok, errs := verify.Verify(prog)
	for _, e := range errs {
		fmt.Println(e.Error())
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}
