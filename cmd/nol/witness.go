package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sefton37/nolang/nolt"
)

// runWitness checks a standalone binary against the witnesses recorded
// in a .nolt file, printing one pass/fail line per witness across every
// record the file contains. It does not require the .nolt record's own
// BinaryB64 to match binPath's contents - this lets one witness set be
// replayed against an edited or hand-assembled variant of the program.
func runWitness(args []string) error {
	fs := flag.NewFlagSet("witness", flag.ExitOnError)
	rest := parseFlags(fs, args)
	if len(rest) != 2 {
		return errors.New("witness: expected BIN and JSON arguments")
	}
	binPath, noltPath := rest[0], rest[1]

	prog, err := loadProgram(binPath)
	if err != nil {
		return err
	}

	f, err := os.Open(noltPath)
	if err != nil {
		return errors.Wrap(err, "witness")
	}
	defer f.Close()

	records, err := nolt.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "witness")
	}

	total, passed := 0, 0
	for ri, rec := range records {
		_, results, err := nolt.RunWitnesses(prog, rec.Witnesses)
		if err != nil {
			return errors.Wrap(err, "witness")
		}
		for wi, werr := range results {
			total++
			if werr == nil {
				passed++
				fmt.Printf("record %d witness %d: PASS\n", ri, wi)
			} else {
				fmt.Printf("record %d witness %d: FAIL (%v)\n", ri, wi, werr)
			}
		}
	}

	fmt.Printf("%d/%d witnesses passed\n", passed, total)
	if passed != total {
		os.Exit(1)
	}
	return nil
}
