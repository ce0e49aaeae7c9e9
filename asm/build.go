// Package asm implements an assembler which turns mnemonic source into a
// program image for the opcode machine, and a matching disassembler.
package asm

import (
	"os"

	"github.com/pkg/errors"
)

// Build assembles the given source file.
func Build(file string) ([]int64, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	prog, err := Assemble(file, fd)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return nil, err
		}
		return nil, errors.Wrapf(err, "%s", file)
	}
	return prog, nil
}
