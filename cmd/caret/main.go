/*
The caret command line REPL.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glycerine/caret/caret"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("caret command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := caret.NewCaretConfig("caret")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "caret command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	caret.ReplMain(cfg)
}
