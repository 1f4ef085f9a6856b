package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/verify"
	"github.com/sefton37/nolang/vm"
)

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	rest := parseFlags(fs, args)
	if len(rest) != 1 {
		return errors.New("run: expected exactly one input file")
	}

	prog, err := loadProgram(rest[0])
	if err != nil {
		return err
	}

	if ok, errs := verify.Verify(prog); !ok {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	m, err := vm.New(prog)
	if err != nil {
		return errors.Wrap(err, "run")
	}
	result, err := m.Run()
	if err != nil {
		if !debug {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println(result.String())
	return nil
}
