package vm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script is a Machine which replays a fixed list of states and records
// the input it was given.
type script struct {
	states []State
	input  []int64
}

func (s *script) Input(values ...int64) { s.input = append(s.input, values...) }

func (s *script) Run() (State, error) {
	if len(s.states) == 0 {
		return State{}, ErrHalted
	}
	st := s.states[0]
	if st.Kind == AwaitingInput && len(s.input) > 0 {
		s.states = s.states[1:]
		return s.Run()
	}
	if st.Kind != AwaitingInput {
		s.states = s.states[1:]
	}
	return st, nil
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "suspended(3)", Suspend(3).String())
	assert.Equal(t, "terminated(-1)", Terminate(-1).String())
	assert.Equal(t, "terminated", Terminate(NoOutput).String())
	assert.Equal(t, "awaiting input", Await().String())
}

func TestErrorIs(t *testing.T) {
	err := NewError(OutOfBounds, 12, "ADD", "address %d", -1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.False(t, errors.Is(err, ErrInvalidOpcode))
	assert.Equal(t, "0012 ADD: out of bounds: address -1", err.Error())

	err = NewError(InvalidOpcode, 3, "", "unknown opcode %02d", 42)
	assert.Equal(t, "0003: invalid opcode: unknown opcode 42", err.Error())
}

func TestRunToCompletion(t *testing.T) {
	m := &script{states: []State{Suspend(1), Suspend(2), Terminate(2)}}
	v, err := RunToCompletion(m)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	m = &script{states: []State{Suspend(1), Await(), Terminate(1)}}
	_, err = RunToCompletion(m)
	assert.True(t, errors.Is(err, ErrInputExhausted))
}

func TestExecChan(t *testing.T) {
	in := make(Chan, 1)
	out := make(Chan, 4)
	in <- 5

	m := &script{states: []State{Suspend(1), Await(), Suspend(2), Terminate(2)}}
	require.NoError(t, Exec(context.Background(), m, in, out))

	close(out)
	var have []int64
	for v := range out {
		have = append(have, v)
	}
	assert.Equal(t, []int64{1, 2}, have)
	assert.Equal(t, []int64{5}, m.input)
}

func TestExecCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	m := &script{states: []State{Await()}}
	err := Exec(ctx, m, make(Chan), make(Chan))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "%v", err)

	closed := make(Chan)
	close(closed)
	err = Exec(context.Background(), &script{states: []State{Await()}}, closed, make(Chan))
	assert.True(t, errors.Is(err, ErrClosed), "%v", err)
}

func TestPipeFIFO(t *testing.T) {
	bus := NewBus(2)
	p := bus.Pipe()
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		require.NoError(t, p.Send(ctx, i))
	}
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, 5, p.Sent())

	for i := int64(0); i < 5; i++ {
		v, err := p.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 5, p.Sent())
}

func TestPipeBlocks(t *testing.T) {
	bus := NewBus(2)
	p := bus.Pipe()

	got := make(chan int64)
	go func() {
		v, err := p.Recv(context.Background())
		if err == nil {
			got <- v
		}
		close(got)
	}()

	select {
	case <-got:
		t.Fatal("Recv returned before anything was sent")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, p.Send(context.Background(), 9))
	assert.Equal(t, int64(9), <-got)
}

func TestBusDeadlock(t *testing.T) {
	bus := NewBus(2)
	a, b := bus.Pipe(), bus.Pipe()

	errs := make(chan error, 2)
	go func() { _, err := a.Recv(context.Background()); errs <- err }()
	go func() { _, err := b.Recv(context.Background()); errs <- err }()

	assert.True(t, errors.Is(<-errs, ErrDeadlock))
	assert.True(t, errors.Is(<-errs, ErrDeadlock))
	assert.True(t, errors.Is(bus.Err(), ErrDeadlock))
}

func TestBusLeave(t *testing.T) {
	bus := NewBus(2)
	p := bus.Pipe()

	errs := make(chan error, 1)
	go func() { _, err := p.Recv(context.Background()); errs <- err }()

	bus.Leave()
	assert.True(t, errors.Is(<-errs, ErrDeadlock))
}

func TestPipeCancel(t *testing.T) {
	bus := NewBus(2)
	p := bus.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { _, err := p.Recv(ctx); errs <- err }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.True(t, errors.Is(<-errs, context.Canceled))
	assert.NoError(t, bus.Err())
}
