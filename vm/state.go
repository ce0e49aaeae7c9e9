// Package vm defines the contract shared by all resumable machines: the
// states a machine suspends in, the errors it fails with, and adapters
// which drive a machine from blocking message links.
package vm

import (
	"fmt"
	"math"
)

// NoOutput is the value carried by Terminated when a machine halts
// without ever having produced output.
const NoOutput int64 = math.MinInt64

// Kind identifies the reason a machine handed control back to its host.
type Kind uint8

// Known state kinds.
const (
	Suspended     Kind = iota // An output instruction just ran.
	Terminated                // The program halted.
	AwaitingInput             // An input instruction found the input queue empty.
)

func (k Kind) String() string {
	switch k {
	case Suspended:
		return "suspended"
	case Terminated:
		return "terminated"
	case AwaitingInput:
		return "awaiting input"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// State is returned from Machine.Run. Value is only meaningful for
// Suspended and Terminated.
type State struct {
	Kind  Kind
	Value int64
}

// Suspend returns a Suspended state carrying the given output value.
func Suspend(v int64) State { return State{Kind: Suspended, Value: v} }

// Terminate returns a Terminated state carrying the given final value.
func Terminate(v int64) State { return State{Kind: Terminated, Value: v} }

// Await returns an AwaitingInput state.
func Await() State { return State{Kind: AwaitingInput} }

func (s State) String() string {
	switch s.Kind {
	case Suspended, Terminated:
		if s.Value == NoOutput {
			return s.Kind.String()
		}
		return fmt.Sprintf("%s(%d)", s.Kind, s.Value)
	}
	return s.Kind.String()
}

// Machine is a program which runs until it produces output, needs input
// it does not have, or halts.
type Machine interface {
	// Input appends values to the machine's input queue.
	// It never blocks.
	Input(values ...int64)

	// Run executes instructions until the next suspension point.
	// Fatal errors are sticky: once Run fails, every later call
	// returns the same error.
	Run() (State, error)
}
