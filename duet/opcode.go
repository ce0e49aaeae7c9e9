package duet

import "strings"

// Known opcodes.
const (
	SND = iota
	SET
	ADD
	MUL
	MOD
	RCV
	JGZ
)

// Opcode returns the opcode for the given instruction name.
// Returns false if the name is not recognized.
func Opcode(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "snd":
		return SND, true
	case "set":
		return SET, true
	case "add":
		return ADD, true
	case "mul":
		return MUL, true
	case "mod":
		return MOD, true
	case "rcv":
		return RCV, true
	case "jgz":
		return JGZ, true
	}
	return 0, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	switch opcode {
	case SND:
		return "snd", true
	case SET:
		return "set", true
	case ADD:
		return "add", true
	case MUL:
		return "mul", true
	case MOD:
		return "mod", true
	case RCV:
		return "rcv", true
	case JGZ:
		return "jgz", true
	}
	return "", false
}

// Argc returns the number of arguments the given instruction requires.
// Returns -1 if the opcode is not recognized.
func Argc(opcode int) int {
	switch opcode {
	case SET, ADD, MUL, MOD, JGZ:
		return 2
	case SND, RCV:
		return 1
	}
	return -1
}

// writes returns true if the first operand of opcode is written to and
// must therefore name a register.
func writes(opcode int) bool {
	switch opcode {
	case SET, ADD, MUL, MOD, RCV:
		return true
	}
	return false
}
