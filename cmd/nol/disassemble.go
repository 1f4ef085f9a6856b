package main

import (
	"bufio"
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/asm"
	"github.com/sefton37/nolang/instr"
)

func runDisassemble(args []string) error {
	fs := flag.NewFlagSet("disassemble", flag.ExitOnError)
	rest := parseFlags(fs, args)
	if len(rest) != 1 {
		return errors.New("disassemble: expected exactly one input file")
	}

	b, err := os.ReadFile(rest[0])
	if err != nil {
		return errors.Wrap(err, "disassemble")
	}
	prog, err := instr.DecodeProgram(b)
	if err != nil {
		return errors.Wrap(err, "disassemble")
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	return asm.WriteDisassembly(prog, w)
}
