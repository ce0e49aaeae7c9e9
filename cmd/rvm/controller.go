package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvm/asm"
	"github.com/hexaflex/rvm/cpu"
	"github.com/hexaflex/rvm/vm"
)

// Controller controls the execution of a CPU.
type Controller struct {
	cpu        *cpu.CPU
	trace      io.Writer // Destination for trace output; nil disables it.
	start      time.Time
	cycleCount uint64
}

// NewController creates a new controller for the given program.
// Trace output is written to trace if it is not nil.
func NewController(program []int64, extended bool, trace io.Writer) *Controller {
	c := &Controller{trace: trace}

	opts := []cpu.Option{cpu.WithName("rvm"), cpu.WithTrace(c.printTrace)}
	if extended {
		opts = append(opts, cpu.WithExtensions())
	}

	c.cpu = cpu.New(program, opts...)
	return c
}

// CPU returns the controlled cpu.
func (c *Controller) CPU() *cpu.CPU {
	return c.cpu
}

// Cycles returns the number of instructions executed by the last call to Run.
func (c *Controller) Cycles() uint64 {
	return c.cycleCount
}

// Frequency returns the clock frequency of the last call to Run in herz.
func (c *Controller) Frequency() float64 {
	elapsed := time.Since(c.start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(c.cycleCount) / elapsed
}

// Run executes the program until it halts, writing every output value to
// out on its own line. It fails with vm.ErrInputExhausted when the program
// asks for more input than was queued.
func (c *Controller) Run(out io.Writer) error {
	c.start = time.Now()
	c.cycleCount = 0

	for {
		state, err := c.cpu.Run()
		if err != nil {
			return err
		}

		switch state.Kind {
		case vm.Suspended:
			fmt.Fprintln(out, state.Value)
		case vm.AwaitingInput:
			return errors.Wrapf(vm.ErrInputExhausted, "%04d", c.cpu.IP())
		case vm.Terminated:
			return nil
		}
	}
}

// printTrace counts executed instructions and prints instruction trace
// data if a trace writer was given.
func (c *Controller) printTrace(i *cpu.Instruction) {
	c.cycleCount++

	if c.trace == nil {
		return
	}

	fmt.Fprintf(c.trace, "%04d  %-28s rb=%d\n", i.IP, asm.Format(i), c.cpu.RelativeBase())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
