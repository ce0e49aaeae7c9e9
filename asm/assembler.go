package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/hexaflex/rvm/arch"
)

// statement is a single parsed source line.
type statement struct {
	pos   Position  // Position of the mnemonic.
	lpos  Position  // Position of the label.
	label string    // Optional label defined on this line.
	name  string    // Mnemonic, "data", or empty for label-only lines.
	args  []operand // Operands in source order.
}

// operand is a single parsed instruction operand.
// Its value is either a literal or a label plus offset.
type operand struct {
	pos    Position
	mode   arch.AddressMode
	label  string
	offset int64
}

type assembler struct {
	labels map[string]int64
	stmts  []statement
}

// Assemble turns the given source into a program image.
//
// Each line holds an optional `label:`, followed by an optional mnemonic and
// its comma separated operands. Comments start with ';'. Operands are a
// number or label, optionally followed by +n or -n, and prefixed with '#'
// for immediate or '~' for relative mode; no prefix means position mode.
// The `data` directive emits its operands as raw words.
func Assemble(file string, r io.Reader) ([]int64, error) {
	a := &assembler{labels: make(map[string]int64)}

	if err := a.parse(file, r); err != nil {
		return nil, err
	}

	if err := a.layout(); err != nil {
		return nil, err
	}

	return a.emit()
}

// AssembleString is Assemble for in-memory sources.
func AssembleString(file, src string) ([]int64, error) {
	return Assemble(file, strings.NewReader(src))
}

// parse reads all statements from r.
func (a *assembler) parse(file string, r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, ';'); i > -1 {
			text = text[:i]
		}

		pos := Position{File: file, Line: line}
		col := 0

		// next returns the next whitespace delimited token and its column.
		next := func() (string, int) {
			for col < len(text) && isSpace(text[col]) {
				col++
			}
			start := col
			for col < len(text) && !isSpace(text[col]) {
				col++
			}
			return text[start:col], start + 1
		}

		var st statement
		tok, tcol := next()

		if strings.HasSuffix(tok, ":") {
			st.label = strings.TrimSuffix(tok, ":")
			st.lpos = Position{File: file, Line: line, Col: tcol}
			if !isIdent(st.label) {
				return newError(st.lpos, "invalid label name %q", st.label)
			}
			tok, tcol = next()
		}

		if tok == "" {
			if st.label != "" {
				a.stmts = append(a.stmts, st)
			}
			continue
		}

		st.name = strings.ToLower(tok)
		st.pos = Position{File: file, Line: line, Col: tcol}

		rest := text[col:]
		if strings.TrimSpace(rest) != "" {
			offset := col
			for _, field := range strings.Split(rest, ",") {
				trimmed := strings.TrimLeft(field, " \t")
				pos.Col = offset + len(field) - len(trimmed) + 1
				offset += len(field) + 1

				op, err := parseOperand(pos, strings.TrimSpace(trimmed))
				if err != nil {
					return err
				}
				st.args = append(st.args, op)
			}
		}

		a.stmts = append(a.stmts, st)
	}

	return scanner.Err()
}

// layout assigns addresses to all labels.
func (a *assembler) layout() error {
	var addr int64

	for _, st := range a.stmts {
		if st.label != "" {
			if _, ok := a.labels[st.label]; ok {
				return newError(st.lpos, "duplicate label %q", st.label)
			}
			a.labels[st.label] = addr
		}

		switch st.name {
		case "":
		case "data":
			if len(st.args) == 0 {
				return newError(st.pos, "data without values")
			}
			addr += int64(len(st.args))
		default:
			opcode, ok := arch.Opcode(st.name)
			if !ok {
				return newError(st.pos, "unknown instruction %q", st.name)
			}

			argc := arch.Argc(arch.Extended, opcode)
			if len(st.args) != argc {
				return newError(st.pos, "%s expects %d operands; have %d", st.name, argc, len(st.args))
			}
			addr += int64(1 + argc)
		}
	}

	return nil
}

// emit encodes all statements.
func (a *assembler) emit() ([]int64, error) {
	var out []int64

	for _, st := range a.stmts {
		switch st.name {
		case "":
		case "data":
			for _, op := range st.args {
				if op.mode != arch.Position {
					return nil, newError(op.pos, "data values take no address mode")
				}
				v, err := a.value(op)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		default:
			opcode, _ := arch.Opcode(st.name)
			target := arch.Target(opcode)

			word := int64(opcode)
			scale := int64(100)
			for j, op := range st.args {
				if j == target && op.mode == arch.Immediate {
					return nil, newError(op.pos, "%s can not write to an immediate operand", st.name)
				}
				word += int64(op.mode) * scale
				scale *= 10
			}

			out = append(out, word)
			for _, op := range st.args {
				v, err := a.value(op)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
	}

	return out, nil
}

// value resolves the operand's numeric value.
func (a *assembler) value(op operand) (int64, error) {
	if op.label == "" {
		return op.offset, nil
	}

	addr, ok := a.labels[op.label]
	if !ok {
		return 0, newError(op.pos, "undefined label %q", op.label)
	}
	return addr + op.offset, nil
}

// parseOperand parses a single operand expression.
func parseOperand(pos Position, s string) (operand, error) {
	op := operand{pos: pos, mode: arch.Position}

	if s == "" {
		return op, newError(pos, "missing operand")
	}

	switch s[0] {
	case '#':
		op.mode = arch.Immediate
		s = s[1:]
	case '~':
		op.mode = arch.Relative
		s = s[1:]
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		op.offset = v
		return op, nil
	}

	name := s
	if i := strings.IndexAny(s, "+-"); i > 0 {
		name = s[:i]
		v, err := strconv.ParseInt(s[i:], 10, 64)
		if err != nil {
			return op, newError(pos, "invalid offset %q", s[i:])
		}
		op.offset = v
	}

	if !isIdent(name) {
		return op, newError(pos, "invalid operand %q", s)
	}

	op.label = name
	return op, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
