package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hexaflex/rvm/cpu"
	"github.com/hexaflex/rvm/duet"
	"github.com/hexaflex/rvm/host"
	"github.com/hexaflex/rvm/image"
)

// run loads the configured program and runs it once in the requested mode.
// Results are written to out, trace data to trace.
func run(ctx context.Context, c *Config, log *zap.Logger, out, trace io.Writer) error {
	switch {
	case c.Duet:
		return runDuet(ctx, c, out)
	case len(c.Phases) > 0:
		return runPhases(c, out)
	default:
		return runImage(c, log, out, trace)
	}
}

// runImage runs a single program to completion with the configured input.
func runImage(c *Config, log *zap.Logger, out, trace io.Writer) error {
	prog, err := image.Load(c.Image)
	if err != nil {
		return err
	}

	if !c.Trace {
		trace = nil
	}

	ctl := NewController(prog, c.Extended, trace)
	ctl.CPU().Input(c.Input...)

	err = ctl.Run(out)

	log.Debug("finished",
		zap.String("image", c.Image),
		zap.Uint64("cycles", ctl.Cycles()),
		zap.String("frequency", prettyFrequency(ctl.Frequency())))

	return errors.Wrap(err, c.Image)
}

// runPhases finds the phase ordering which yields the highest signal.
func runPhases(c *Config, out io.Writer) error {
	prog, err := image.Load(c.Image)
	if err != nil {
		return err
	}

	var opts []cpu.Option
	if c.Extended {
		opts = append(opts, cpu.WithExtensions())
	}

	signal, order, err := host.MaxSignal(prog, c.Phases, c.Feedback, opts...)
	if err != nil {
		return errors.Wrap(err, c.Image)
	}

	fmt.Fprintln(out, signal, order)
	return nil
}

// runDuet runs a duet program in sound or message mode.
func runDuet(ctx context.Context, c *Config, out io.Writer) error {
	fd, err := os.Open(c.Image)
	if err != nil {
		return err
	}

	defer fd.Close()

	prog, err := duet.Parse(fd)
	if err != nil {
		return errors.Wrap(err, c.Image)
	}

	if c.Sound {
		freq, err := duet.Recover(prog)
		if err != nil {
			return errors.Wrap(err, c.Image)
		}
		fmt.Fprintln(out, freq)
		return nil
	}

	sent, err := duet.Duet(ctx, prog)
	if err != nil {
		return errors.Wrap(err, c.Image)
	}

	fmt.Fprintln(out, sent)
	return nil
}
