package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hexaflex/rvm/arch"
	"github.com/hexaflex/rvm/cpu"
)

// Format returns the source representation of a decoded instruction.
func Format(i *cpu.Instruction) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(i.Name()))

	for j := 0; j < i.Argc; j++ {
		if j == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(i.Args[j].Mode.Prefix())
		sb.WriteString(strconv.FormatInt(i.Args[j].Value, 10))
	}

	return sb.String()
}

// Disassemble writes a listing of prog to w, one statement per line with
// its address as a comment. Words which do not decode as instructions of
// the extended set are listed as data.
func Disassemble(w io.Writer, prog []int64) error {
	mem := cpu.NewMemory(prog, false)

	var instr cpu.Instruction
	for ip := 0; ip < len(prog); {
		text := "data " + strconv.FormatInt(prog[ip], 10)
		width := 1

		if err := instr.Decode(mem, ip, arch.Extended); err == nil {
			text = Format(&instr)
			width = instr.Width()
		}

		if _, err := fmt.Fprintf(w, "%-32s ; %04d\n", text, ip); err != nil {
			return err
		}
		ip += width
	}

	return nil
}
