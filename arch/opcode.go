// Package arch defines the opcode machine's instruction set along with
// some related helper functions.
package arch

import "strings"

// Known opcodes.
const (
	ADD  = 1
	MUL  = 2
	IN   = 3
	OUT  = 4
	JNZ  = 5
	JEZ  = 6
	CLT  = 7
	CEQ  = 8
	ARB  = 9
	HALT = 99
)

// Set selects the opcodes and address modes a machine understands.
type Set uint8

// Known instruction sets.
const (
	Base     Set = 0 // Opcodes 1-8 and 99, position and immediate modes.
	Extended Set = 1 // Adds ARB and the relative address mode.
)

// Has returns true if s includes all of the features in x.
func (s Set) Has(x Set) bool {
	return s&x == x
}

// Opcode returns the opcode for the given instruction name.
// Returns false if the name is not recognized.
func Opcode(name string) (int, bool) {
	switch strings.ToUpper(name) {
	case "ADD":
		return ADD, true
	case "MUL":
		return MUL, true
	case "IN":
		return IN, true
	case "OUT":
		return OUT, true
	case "JNZ":
		return JNZ, true
	case "JEZ":
		return JEZ, true
	case "CLT":
		return CLT, true
	case "CEQ":
		return CEQ, true
	case "ARB":
		return ARB, true
	case "HALT":
		return HALT, true
	}

	return 0, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	switch opcode {
	case ADD:
		return "ADD", true
	case MUL:
		return "MUL", true
	case IN:
		return "IN", true
	case OUT:
		return "OUT", true
	case JNZ:
		return "JNZ", true
	case JEZ:
		return "JEZ", true
	case CLT:
		return "CLT", true
	case CEQ:
		return "CEQ", true
	case ARB:
		return "ARB", true
	case HALT:
		return "HALT", true
	}

	return "", false
}

// Argc returns the number of arguments the given instruction requires
// within instruction set s.
// Returns -1 if the opcode is not recognized.
func Argc(s Set, opcode int) int {
	switch opcode {
	case ADD, MUL, CLT, CEQ:
		return 3
	case JNZ, JEZ:
		return 2
	case IN, OUT:
		return 1
	case HALT:
		return 0
	case ARB:
		if s.Has(Extended) {
			return 1
		}
	}
	return -1
}

// Target returns the index of the argument the given instruction writes to.
// Returns -1 if the instruction does not write to memory.
func Target(opcode int) int {
	switch opcode {
	case ADD, MUL, CLT, CEQ:
		return 2
	case IN:
		return 0
	}
	return -1
}
