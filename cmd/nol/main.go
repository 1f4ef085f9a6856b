// Command nol is the NoLang command-line tool: assemble, disassemble,
// verify, run, hash, and witness-check .nolb/.nol/.nolt files.
package main

import (
	"flag"
	"fmt"
	"os"
)

var debug bool

func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: nol <command> [arguments]

commands:
  assemble IN -o OUT   assemble text (.nol) to binary (.nolb)
  disassemble IN       disassemble binary (.nolb) to text on stdout
  verify IN            run the eight-pass verifier, print errors
  run IN               verify then execute, print the result value
  hash IN              recompute and print each FUNC block's HASH
  witness BIN JSON     check BIN against JSON's (.nolt) witnesses`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "assemble":
		err = runAssemble(args)
	case "disassemble":
		err = runDisassemble(args)
	case "verify":
		err = runVerify(args)
	case "run":
		err = runRun(args)
	case "hash":
		err = runHash(args)
	case "witness":
		err = runWitness(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	atExit(err)
}

// parseFlags registers -debug on the verb's own flag set, so it is
// accepted after the verb name and ahead of the positional arguments,
// and returns the remaining positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) []string {
	fs.BoolVar(&debug, "debug", debug, "print full error chains")
	fs.Parse(args)
	return fs.Args()
}
