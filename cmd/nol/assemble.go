package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/asm"
)

func runAssemble(args []string) error {
	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	out := fs.String("o", "", "output binary file")
	rest := parseFlags(fs, args)
	// Flags may also follow the input file, as in "assemble IN -o OUT".
	if len(rest) > 1 {
		fs.Parse(rest[1:])
		rest = append([]string{rest[0]}, fs.Args()...)
	}
	if len(rest) != 1 {
		return errors.New("assemble: expected exactly one input file")
	}
	if *out == "" {
		return errors.New("assemble: -o OUT is required")
	}

	in, err := os.Open(rest[0])
	if err != nil {
		return errors.Wrap(err, "assemble")
	}
	defer in.Close()

	prog, err := asm.Assemble(in)
	if err != nil {
		if errs, ok := err.(asm.Errors); ok {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.Error())
			}
			os.Exit(1)
		}
		return errors.Wrap(err, "assemble")
	}

	if err := os.WriteFile(*out, prog.Encode(), 0644); err != nil {
		return errors.Wrap(err, "assemble")
	}
	return nil
}
