// Package cpu implements the opcode machine: a resumable register machine
// which executes a linear instruction stream over its own memory bank and
// hands control back to the host whenever it produces output, needs input
// or halts.
package cpu

import (
	"go.uber.org/zap"

	"github.com/hexaflex/rvm/arch"
	"github.com/hexaflex/rvm/vm"
)

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(*Instruction)

// Option configures a CPU.
type Option func(*CPU)

// WithExtensions enables the extended instruction set: the ARB opcode,
// the relative address mode and a growable memory bank.
func WithExtensions() Option {
	return func(c *CPU) { c.set = arch.Extended }
}

// WithTrace installs a handler which receives every decoded instruction
// before it executes.
func WithTrace(trace TraceFunc) Option {
	return func(c *CPU) {
		if trace != nil {
			c.trace = trace
		}
	}
}

// WithName sets the name used in log output.
func WithName(name string) Option {
	return func(c *CPU) { c.name = name }
}

// CPU implements the runtime.
type CPU struct {
	name   string      // Name used in log output.
	set    arch.Set    // Accepted instruction set.
	trace  TraceFunc   // Handler for debug trace output.
	memory *Memory     // Program memory.
	instr  Instruction // Decoded instruction data.
	ip     int         // Instruction pointer.
	rb     int64       // Relative base.
	input  []int64     // Pending input values.
	output []int64     // Every value ever output.
	err    error       // Sticky fatal error.
	halted bool        // Has HALT executed?
}

var _ vm.Machine = (*CPU)(nil)

// New creates a new CPU with its own copy of the given program.
func New(program []int64, opts ...Option) *CPU {
	c := &CPU{
		name:  "cpu",
		trace: func(*Instruction) { /* nop */ },
	}

	for _, opt := range opts {
		opt(c)
	}

	c.memory = NewMemory(program, c.set.Has(arch.Extended))
	return c
}

// Name returns the name used in log output.
func (c *CPU) Name() string { return c.name }

// Memory returns the cpu's memory bank.
func (c *CPU) Memory() *Memory { return c.memory }

// IP returns the address of the next instruction.
func (c *CPU) IP() int { return c.ip }

// RelativeBase returns the current relative base.
func (c *CPU) RelativeBase() int64 { return c.rb }

// Halted returns true once the program has executed HALT.
func (c *CPU) Halted() bool { return c.halted }

// Err returns the fatal error the cpu stopped on, if any.
func (c *CPU) Err() error { return c.err }

// Input appends values to the input queue.
func (c *CPU) Input(values ...int64) {
	c.input = append(c.input, values...)
}

// Output returns a copy of every value output so far.
func (c *CPU) Output() []int64 {
	out := make([]int64, len(c.output))
	copy(out, c.output)
	return out
}

// Run executes instructions until the program outputs a value, needs input
// which has not been supplied, or halts.
//
// After AwaitingInput the instruction pointer still refers to the input
// instruction, so it executes again on the next call. Fatal errors are
// returned by every subsequent call. Calling Run after the program halted
// returns vm.ErrHalted.
func (c *CPU) Run() (vm.State, error) {
	if c.err != nil {
		return vm.State{}, c.err
	}
	if c.halted {
		return vm.State{}, vm.ErrHalted
	}

	for {
		state, yield, err := c.step()
		if err != nil {
			c.err = err
			Logger().Debug("fatal error",
				zap.String("cpu", c.name),
				zap.Int("ip", c.ip),
				zap.Error(err))
			return vm.State{}, err
		}

		if yield {
			Logger().Debug("yield",
				zap.String("cpu", c.name),
				zap.Stringer("state", state),
				zap.Int("ip", c.ip))
			return state, nil
		}
	}
}

// Step executes a single instruction. It returns true along with the
// resulting state when the instruction handed control back to the host.
// Errors are sticky, as with Run.
func (c *CPU) Step() (vm.State, bool, error) {
	if c.err != nil {
		return vm.State{}, false, c.err
	}
	if c.halted {
		return vm.State{}, false, vm.ErrHalted
	}

	state, yield, err := c.step()
	if err != nil {
		c.err = err
	}
	return state, yield, err
}

// RunToCompletion runs the program until it halts, using only the input
// queued so far, and returns the last value it output.
func (c *CPU) RunToCompletion() (int64, error) {
	return vm.RunToCompletion(c)
}

// step performs a single execution step. It returns true if control
// must go back to the host.
func (c *CPU) step() (vm.State, bool, error) {
	instr := &c.instr
	args := instr.Args[:]

	if err := instr.Decode(c.memory, c.ip, c.set); err != nil {
		return c.fail(err)
	}

	c.trace(instr)

	next := c.ip + instr.Width()

	switch instr.Opcode {
	case arch.ADD, arch.MUL, arch.CLT, arch.CEQ:
		va, err := c.load(args[0])
		if err != nil {
			return c.fail(err)
		}
		vb, err := c.load(args[1])
		if err != nil {
			return c.fail(err)
		}

		var vc int64
		switch instr.Opcode {
		case arch.ADD:
			vc = va + vb
		case arch.MUL:
			vc = va * vb
		case arch.CLT:
			vc = _bool(va < vb)
		case arch.CEQ:
			vc = _bool(va == vb)
		}

		if err := c.store(args[2], vc); err != nil {
			return c.fail(err)
		}

	case arch.JNZ, arch.JEZ:
		va, err := c.load(args[0])
		if err != nil {
			return c.fail(err)
		}
		vb, err := c.load(args[1])
		if err != nil {
			return c.fail(err)
		}
		if (va != 0) == (instr.Opcode == arch.JNZ) {
			if vb < 0 || vb > MaxMemory {
				return c.fail(vm.NewError(vm.OutOfBounds, c.ip, instr.Name(), "jump target %d", vb))
			}
			next = int(vb)
		}

	case arch.IN:
		if len(c.input) == 0 {
			return vm.Await(), true, nil
		}
		if err := c.store(args[0], c.input[0]); err != nil {
			return c.fail(err)
		}
		c.input = c.input[1:]

	case arch.OUT:
		va, err := c.load(args[0])
		if err != nil {
			return c.fail(err)
		}
		c.output = append(c.output, va)
		c.ip = next
		return vm.Suspend(va), true, nil

	case arch.ARB:
		va, err := c.load(args[0])
		if err != nil {
			return c.fail(err)
		}
		c.rb += va

	case arch.HALT:
		c.halted = true
		c.ip = next
		return vm.Terminate(c.last()), true, nil
	}

	c.ip = next
	return vm.State{}, false, nil
}

// address returns the memory address an operand refers to.
func (c *CPU) address(op Operand) int64 {
	if op.Mode == arch.Relative {
		return c.rb + op.Value
	}
	return op.Value
}

// load returns the value of the given operand.
func (c *CPU) load(op Operand) (int64, error) {
	if op.Mode == arch.Immediate {
		return op.Value, nil
	}
	return c.memory.Read(c.address(op))
}

// store writes value to the address the given operand refers to.
func (c *CPU) store(op Operand, value int64) error {
	return c.memory.Write(c.address(op), value)
}

// fail attaches the current instruction to err.
func (c *CPU) fail(err error) (vm.State, bool, error) {
	if e, ok := err.(*vm.Error); ok {
		e.IP = c.ip
		if e.Op == "" {
			e.Op = c.instr.Name()
		}
	}
	return vm.State{}, false, err
}

// last returns the most recent output, or vm.NoOutput.
func (c *CPU) last() int64 {
	if len(c.output) == 0 {
		return vm.NoOutput
	}
	return c.output[len(c.output)-1]
}

func _bool(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
