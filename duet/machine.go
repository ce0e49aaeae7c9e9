// Package duet implements the Duet machine: a resumable register machine
// with 26 registers, which either plays and recovers sounds or exchanges
// messages with a second copy of itself.
package duet

import (
	"go.uber.org/zap"

	"github.com/hexaflex/rvm/vm"
)

// Option configures a Machine.
type Option func(*Machine)

// WithID sets register p to the given program id.
func WithID(id int64) Option {
	return func(m *Machine) {
		m.regs['p'-'a'] = id
		m.name = "duet" + string(rune('0'+id%10))
	}
}

// WithSound selects sound mode: snd plays a sound and rcv recovers the
// last sound played, ending the program, when its operand is not zero.
func WithSound() Option {
	return func(m *Machine) { m.sound = true }
}

// WithName sets the name used in log output.
func WithName(name string) Option {
	return func(m *Machine) { m.name = name }
}

// Machine runs a Duet program.
//
// In the default message mode snd outputs a value and rcv reads the next
// input value into a register, suspending with vm.AwaitingInput while
// there is none. The program terminates when ip leaves the program.
type Machine struct {
	name   string
	prog   Program
	sound  bool
	regs   [Registers]int64
	ip     int
	input  []int64
	output []int64
	err    error
	halted bool
}

var _ vm.Machine = (*Machine)(nil)

// New creates a machine for the given program with all registers zeroed.
func New(prog Program, opts ...Option) *Machine {
	m := &Machine{name: "duet", prog: prog}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IP returns the index of the next instruction.
func (m *Machine) IP() int { return m.ip }

// Register returns the value of the register with the given name.
func (m *Machine) Register(name byte) int64 {
	return m.regs[name-'a']
}

// Halted returns true once the program has terminated.
func (m *Machine) Halted() bool { return m.halted }

// Input appends values to the input queue.
func (m *Machine) Input(values ...int64) {
	m.input = append(m.input, values...)
}

// Output returns a copy of every value sent or played so far.
func (m *Machine) Output() []int64 {
	out := make([]int64, len(m.output))
	copy(out, m.output)
	return out
}

// Run executes instructions until the program outputs a value, needs input
// which has not been supplied, or terminates.
func (m *Machine) Run() (vm.State, error) {
	if m.err != nil {
		return vm.State{}, m.err
	}
	if m.halted {
		return vm.State{}, vm.ErrHalted
	}

	for {
		state, yield, err := m.step()
		if err != nil {
			m.err = err
			Logger().Debug("fatal error",
				zap.String("machine", m.name),
				zap.Int("ip", m.ip),
				zap.Error(err))
			return vm.State{}, err
		}

		if yield {
			Logger().Debug("yield",
				zap.String("machine", m.name),
				zap.Stringer("state", state),
				zap.Int("ip", m.ip))
			return state, nil
		}
	}
}

// step performs a single execution step. It returns true if control
// must go back to the host.
func (m *Machine) step() (vm.State, bool, error) {
	if m.ip < 0 || m.ip >= len(m.prog) {
		m.halted = true
		return vm.Terminate(m.last()), true, nil
	}

	instr := &m.prog[m.ip]
	args := instr.Args[:]
	next := m.ip + 1

	switch instr.Opcode {
	case SND:
		v := m.load(args[0])
		m.output = append(m.output, v)
		m.ip = next
		return vm.Suspend(v), true, nil

	case SET:
		m.regs[args[0].Reg] = m.load(args[1])
	case ADD:
		m.regs[args[0].Reg] += m.load(args[1])
	case MUL:
		m.regs[args[0].Reg] *= m.load(args[1])
	case MOD:
		vb := m.load(args[1])
		if vb == 0 {
			return vm.State{}, false, vm.NewError(vm.InvalidOperand, m.ip, "mod", "modulo by zero")
		}
		m.regs[args[0].Reg] %= vb

	case RCV:
		if m.sound {
			if m.load(args[0]) != 0 {
				m.halted = true
				m.ip = next
				return vm.Terminate(m.last()), true, nil
			}
			break
		}

		if len(m.input) == 0 {
			return vm.Await(), true, nil
		}
		m.regs[args[0].Reg] = m.input[0]
		m.input = m.input[1:]

	case JGZ:
		if m.load(args[0]) > 0 {
			next = m.ip + int(m.load(args[1]))
		}
	}

	m.ip = next
	return vm.State{}, false, nil
}

func (m *Machine) load(op Operand) int64 {
	if op.IsRegister() {
		return m.regs[op.Reg]
	}
	return op.Value
}

// last returns the most recent output, or vm.NoOutput.
func (m *Machine) last() int64 {
	if len(m.output) == 0 {
		return vm.NoOutput
	}
	return m.output[len(m.output)-1]
}
