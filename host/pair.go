package host

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hexaflex/rvm/vm"
)

// PairResult describes how a pair of machines finished.
type PairResult struct {
	Sent       [2]int // Number of values each machine sent to the other.
	Deadlocked bool   // Did the pair stop because both sides were waiting?
}

// Pair runs a and b concurrently. Every output of one machine is queued
// as input of the other; a machine which needs input blocks until its
// peer sends some.
//
// The pair finishes when both machines have terminated, or when every
// machine still running is blocked on input nobody can send anymore.
// The latter is reported through PairResult.Deadlocked, not as an error.
// Cancelling ctx releases blocked machines with ctx.Err().
func Pair(ctx context.Context, a, b vm.Machine) (PairResult, error) {
	bus := vm.NewBus(2)
	ab := bus.Pipe()
	ba := bus.Pipe()

	g, ctx := errgroup.WithContext(ctx)

	run := func(id int, m vm.Machine, in, out *vm.Pipe) func() error {
		return func() error {
			defer bus.Leave()

			err := vm.Exec(ctx, m, in, out)
			if errors.Is(err, vm.ErrDeadlock) {
				return nil
			}

			Logger().Debug("pair member finished",
				zap.Int("machine", id),
				zap.Error(err))
			return err
		}
	}

	g.Go(run(0, a, ba, ab))
	g.Go(run(1, b, ab, ba))

	err := g.Wait()

	return PairResult{
		Sent:       [2]int{ab.Sent(), ba.Sent()},
		Deadlocked: errors.Is(bus.Err(), vm.ErrDeadlock),
	}, err
}
