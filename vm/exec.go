package vm

import "context"

// Receiver yields input values. Recv blocks until a value is available.
type Receiver interface {
	Recv(ctx context.Context) (int64, error)
}

// Sender accepts output values.
type Sender interface {
	Send(ctx context.Context, v int64) error
}

// Exec runs m until it terminates, blocking on in whenever m needs input
// and forwarding every output to out.
//
// This is the blocking counterpart of driving Run from a host loop:
// AwaitingInput never reaches the caller.
func Exec(ctx context.Context, m Machine, in Receiver, out Sender) error {
	for {
		state, err := m.Run()
		if err != nil {
			return err
		}

		switch state.Kind {
		case Suspended:
			if err := out.Send(ctx, state.Value); err != nil {
				return err
			}
		case AwaitingInput:
			v, err := in.Recv(ctx)
			if err != nil {
				return err
			}
			m.Input(v)
		case Terminated:
			return nil
		}
	}
}

// Chan adapts a Go channel to Receiver and Sender.
type Chan chan int64

// Send blocks until v is accepted or ctx is done.
func (c Chan) Send(ctx context.Context, v int64) error {
	select {
	case c <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks until a value arrives, c is closed or ctx is done.
func (c Chan) Recv(ctx context.Context) (int64, error) {
	select {
	case v, ok := <-c:
		if !ok {
			return 0, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// RunToCompletion runs m until it halts, consuming only input which is
// already queued. It returns the value m terminated with.
// Returns ErrInputExhausted if m asks for more input than it was given.
func RunToCompletion(m Machine) (int64, error) {
	for {
		state, err := m.Run()
		if err != nil {
			return 0, err
		}

		switch state.Kind {
		case Terminated:
			return state.Value, nil
		case AwaitingInput:
			return 0, ErrInputExhausted
		}
	}
}
