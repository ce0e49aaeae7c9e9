package vm

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by machines and their adapters.
var (
	ErrHalted         = errors.New("machine has halted")
	ErrInputExhausted = errors.New("machine needs more input than was supplied")
	ErrDeadlock       = errors.New("all machines are waiting for input")
	ErrClosed         = errors.New("input channel is closed")
)

// ErrorKind categorizes fatal runtime errors.
type ErrorKind uint8

// Known error kinds.
const (
	OutOfBounds    ErrorKind = iota + 1 // Address outside of memory.
	InvalidOpcode                       // Undecodable instruction.
	InvalidMode                         // Unknown address mode, or immediate mode on a write target.
	InvalidOperand                      // Operand value the instruction can not work with.
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "out of bounds"
	case InvalidOpcode:
		return "invalid opcode"
	case InvalidMode:
		return "invalid address mode"
	case InvalidOperand:
		return "invalid operand"
	}
	return fmt.Sprintf("error kind %d", uint8(k))
}

// Targets for errors.Is.
var (
	ErrOutOfBounds    = &Error{Kind: OutOfBounds}
	ErrInvalidOpcode  = &Error{Kind: InvalidOpcode}
	ErrInvalidMode    = &Error{Kind: InvalidMode}
	ErrInvalidOperand = &Error{Kind: InvalidOperand}
)

// Error defines a fatal runtime error.
type Error struct {
	Kind ErrorKind
	IP   int    // Address of the failing instruction.
	Op   string // Name of the failing instruction, if it could be decoded.
	Msg  string
}

// NewError creates a new, formatted error message for the instruction at ip.
func NewError(kind ErrorKind, ip int, op string, f string, argv ...interface{}) *Error {
	return &Error{
		Kind: kind,
		IP:   ip,
		Op:   op,
		Msg:  fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%04d: %s: %s", e.IP, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%04d %s: %s: %s", e.IP, e.Op, e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
