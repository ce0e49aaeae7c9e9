package duet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Registers is the number of registers, named 'a' through 'z'.
const Registers = 26

// Operand is either a register or a literal value.
type Operand struct {
	Reg   int   // Register index, or -1 for a literal.
	Value int64 // Literal value.
}

// IsRegister returns true if the operand names a register.
func (o Operand) IsRegister() bool { return o.Reg >= 0 }

func (o Operand) String() string {
	if o.IsRegister() {
		return string(rune('a' + o.Reg))
	}
	return strconv.FormatInt(o.Value, 10)
}

// Instruction defines a parsed instruction.
type Instruction struct {
	Opcode int
	Args   [2]Operand
	Line   int // Source line the instruction was read from.
}

func (i Instruction) String() string {
	name, _ := Name(i.Opcode)
	var sb strings.Builder
	sb.WriteString(name)
	for j := 0; j < Argc(i.Opcode); j++ {
		sb.WriteByte(' ')
		sb.WriteString(i.Args[j].String())
	}
	return sb.String()
}

// Program is a parsed Duet program.
type Program []Instruction

// Error defines a parse error with source context.
type Error struct {
	Line int
	Msg  string
}

// NewError creates a new, formatted error message for the given line.
func NewError(line int, f string, argv ...interface{}) *Error {
	return &Error{
		Line: line,
		Msg:  fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a program with one instruction per line.
// Blank lines are skipped.
func Parse(r io.Reader) (Program, error) {
	var prog Program

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		instr := Instruction{Line: line}

		var ok bool
		if instr.Opcode, ok = Opcode(fields[0]); !ok {
			return nil, NewError(line, "unknown instruction %q", fields[0])
		}

		argc := Argc(instr.Opcode)
		if len(fields)-1 != argc {
			return nil, NewError(line, "%s expects %d operands; have %d", fields[0], argc, len(fields)-1)
		}

		for j := 0; j < argc; j++ {
			op, err := parseOperand(fields[j+1])
			if err != nil {
				return nil, NewError(line, "operand %d: %v", j+1, err)
			}
			instr.Args[j] = op
		}

		if writes(instr.Opcode) && !instr.Args[0].IsRegister() {
			return nil, NewError(line, "%s must write to a register", fields[0])
		}

		prog = append(prog, instr)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read program")
	}

	return prog, nil
}

// ParseString is Parse for in-memory sources.
func ParseString(src string) (Program, error) {
	return Parse(strings.NewReader(src))
}

func parseOperand(s string) (Operand, error) {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return Operand{Reg: int(s[0] - 'a')}, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, errors.Errorf("%q is neither a register nor a number", s)
	}
	return Operand{Reg: -1, Value: v}, nil
}
