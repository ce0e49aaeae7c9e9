package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Config defines program configuration.
type Config struct {
	Image    string  // Path to the image or duet source file to load.
	Input    []int64 // Values queued as input before the program starts.
	Phases   []int64 // Phase settings to search for the highest amplifier signal.
	Extended bool    // Enable the extended instruction set?
	Feedback bool    // Run the phase search in a feedback loop?
	Duet     bool    // Treat the input file as a duet program?
	Sound    bool    // Run the duet program in sound mode?
	Watch    bool    // Rerun the program whenever the input file changes?
	Debug    bool    // Enable debug logging.
	Trace    bool    // Print instruction trace data?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	input := flag.String("input", "", "Comma-separated list of input values.")
	phases := flag.String("phases", "", "Comma-separated list of phase settings. Prints the highest signal over all orderings.")
	flag.BoolVar(&c.Extended, "extended", c.Extended, "Enable relative addressing, ARB and growable memory.")
	flag.BoolVar(&c.Feedback, "feedback", c.Feedback, "Connect the amplifiers of a phase search in a feedback loop.")
	flag.BoolVar(&c.Duet, "duet", c.Duet, "Run the input file as a duet program.")
	flag.BoolVar(&c.Sound, "sound", c.Sound, "Run a duet program in sound mode and print the recovered frequency.")
	flag.BoolVar(&c.Watch, "watch", c.Watch, "Run the program again whenever the input file changes.")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging.")
	flag.BoolVar(&c.Trace, "trace", c.Trace, "Print instruction trace data to stderr.")
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

	var err error
	if c.Input, err = parseInts(*input); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "-input"))
		os.Exit(1)
	}
	if c.Phases, err = parseInts(*phases); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "-phases"))
		os.Exit(1)
	}

	c.Image = flag.Arg(0)
	return &c
}

// parseInts parses a comma-separated list of integers.
func parseInts(value string) ([]int64, error) {
	var out []int64
	for _, field := range filteredSplit(value, ",") {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value %q", field)
		}
		out = append(out, v)
	}
	return out, nil
}

// filteredSplit splits value by sep and returns the resulting list, minus empty entries.
func filteredSplit(value, sep string) []string {
	out := strings.Split(value, sep)
	for i := 0; i < len(out); i++ {
		out[i] = strings.TrimSpace(out[i])
		if len(out[i]) == 0 {
			copy(out[i:], out[i+1:])
			out = out[:len(out)-1]
			i--
		}
	}
	return out
}
