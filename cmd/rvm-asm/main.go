package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvm/asm"
	"github.com/hexaflex/rvm/image"
)

func main() {
	config := parseArgs()

	var err error
	if config.Dump {
		err = dumpImage(config)
	} else {
		err = buildImage(config)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dumpImage loads an image and writes a disassembly of it to the
// requested output.
func dumpImage(c *Config) error {
	prog, err := image.Load(c.Input)
	if err != nil {
		return err
	}

	return writeOutput(c, func(w io.Writer) error {
		return asm.Disassemble(w, prog)
	})
}

// buildImage assembles a source file and writes the image to the requested
// output location.
func buildImage(c *Config) error {
	prog, err := asm.Build(c.Input)
	if err != nil {
		return err
	}

	return writeOutput(c, func(w io.Writer) error {
		return image.Format(w, prog)
	})
}

// writeOutput calls write with the configured output writer.
func writeOutput(c *Config, write func(io.Writer) error) error {
	if c.Output == "" {
		return write(os.Stdout)
	}

	dir, _ := filepath.Split(c.Output)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		return err
	}

	if err := write(fd); err != nil {
		fd.Close()
		return errors.Wrap(err, c.Output)
	}
	return fd.Close()
}
