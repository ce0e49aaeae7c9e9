package duet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hexaflex/rvm/host"
	"github.com/hexaflex/rvm/vm"
)

// Recover runs prog in sound mode and returns the frequency of the first
// sound recovered. If the program ends without recovering anything, the
// last sound played is returned.
// Returns an error if no sound was played at all.
func Recover(prog Program) (int64, error) {
	v, err := vm.RunToCompletion(New(prog, WithSound()))
	if err != nil {
		return 0, err
	}
	if v == vm.NoOutput {
		return 0, errors.New("no sound was played")
	}
	return v, nil
}

// Duet runs two copies of prog, with program ids 0 and 1, exchanging
// messages until both have terminated or deadlocked. It returns the
// number of values program 1 sent.
func Duet(ctx context.Context, prog Program) (int, error) {
	res, err := host.Pair(ctx, New(prog, WithID(0)), New(prog, WithID(1)))
	if err != nil {
		return 0, errors.Wrap(err, "duet")
	}
	return res.Sent[1], nil
}
