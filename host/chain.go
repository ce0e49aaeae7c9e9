// Package host composes resumable machines: amplifier chains, feedback
// loops and pairs of machines exchanging messages concurrently.
package host

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hexaflex/rvm/cpu"
	"github.com/hexaflex/rvm/vm"
)

// Series feeds signal to the first machine and every machine's first output
// to the next one. It returns the first output of the last machine.
func Series(machines []vm.Machine, signal int64) (int64, error) {
	for i, m := range machines {
		m.Input(signal)

		state, err := m.Run()
		if err != nil {
			return 0, errors.Wrapf(err, "machine %d", i)
		}

		switch state.Kind {
		case vm.Suspended:
			signal = state.Value
		case vm.AwaitingInput:
			return 0, errors.Wrapf(vm.ErrInputExhausted, "machine %d", i)
		case vm.Terminated:
			return 0, errors.Errorf("machine %d: halted without output", i)
		}
	}

	return signal, nil
}

// Ring connects the machines in a circle: every output of machine k is
// queued as input of machine k+1, and the last machine feeds the first.
// signal is queued on the first machine before anything runs.
//
// Machines are run in turn until each has terminated. The result is the
// value the last machine to terminate halted with.
// Returns vm.ErrDeadlock if a full round passes without progress.
func Ring(machines []vm.Machine, signal int64) (int64, error) {
	n := len(machines)
	if n == 0 {
		return 0, errors.New("ring without machines")
	}

	machines[0].Input(signal)

	done := make([]bool, n)
	remaining := n
	result := vm.NoOutput

	for remaining > 0 {
		progress := false

		for i, m := range machines {
			if done[i] {
				continue
			}

		run:
			for {
				state, err := m.Run()
				if err != nil {
					return 0, errors.Wrapf(err, "machine %d", i)
				}

				switch state.Kind {
				case vm.Suspended:
					machines[(i+1)%n].Input(state.Value)
					progress = true
				case vm.Terminated:
					done[i] = true
					remaining--
					result = state.Value
					progress = true
					Logger().Debug("ring member terminated",
						zap.Int("machine", i),
						zap.Int64("value", state.Value))
					break run
				case vm.AwaitingInput:
					break run
				}
			}
		}

		if !progress {
			return 0, errors.Wrapf(vm.ErrDeadlock, "ring with %d live machines", remaining)
		}
	}

	return result, nil
}

// Chain runs one copy of program per phase in series. Every copy first
// receives its phase setting, then the previous copy's output; the first
// copy receives signal.
func Chain(program, phases []int64, signal int64, opts ...cpu.Option) (int64, error) {
	return Series(amplifiers(program, phases, opts), signal)
}

// Feedback runs one copy of program per phase in a ring. Every copy first
// receives its phase setting; the first copy then receives signal.
func Feedback(program, phases []int64, signal int64, opts ...cpu.Option) (int64, error) {
	return Ring(amplifiers(program, phases, opts), signal)
}

// MaxSignal tries every ordering of phases with Chain, or Feedback when
// feedback is true, starting from a signal of 0. It returns the highest
// signal and the ordering which produced it.
func MaxSignal(program, phases []int64, feedback bool, opts ...cpu.Option) (int64, []int64, error) {
	run := Chain
	if feedback {
		run = Feedback
	}

	var (
		best  int64
		order []int64
	)

	for _, perm := range Permutations(phases) {
		signal, err := run(program, perm, 0, opts...)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "phases %v", perm)
		}

		if order == nil || signal > best {
			best = signal
			order = perm
		}
	}

	Logger().Debug("max signal",
		zap.Int64("signal", best),
		zap.Int64s("phases", order),
		zap.Bool("feedback", feedback))
	return best, order, nil
}

// amplifiers creates one cpu per phase, each with its own copy of program.
func amplifiers(program, phases []int64, opts []cpu.Option) []vm.Machine {
	out := make([]vm.Machine, len(phases))
	for i, phase := range phases {
		name := string(rune('A' + i%26))
		c := cpu.New(program, append(opts[:len(opts):len(opts)], cpu.WithName(name))...)
		c.Input(phase)
		out[i] = c
	}
	return out
}
