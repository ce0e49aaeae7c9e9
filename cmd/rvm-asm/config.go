package main

import (
	"flag"
	"fmt"
	"os"
)

// Config defines program configuration.
type Config struct {
	Input  string // Input file to build or dump.
	Output string // Path to store output in. Empty means stdout.
	Dump   bool   // Print a disassembly of an image instead of building source.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Output = "out.img"

	flag.Usage = func() {
		fmt.Printf("%s [options] <input file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Output, "out", c.Output, "Output file. Use an empty value to write to stdout.")
	flag.BoolVar(&c.Dump, "dump", c.Dump, "Treat the input as an image and print a human-readable disassembly of it.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Input = flag.Arg(0)

	// A dump is meant to be read.
	if c.Dump && !isSet("out") {
		c.Output = ""
	}
	return &c
}

// isSet returns true if the named flag was given on the command line.
func isSet(name string) bool {
	var found bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
