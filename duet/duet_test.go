package duet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/rvm/vm"
)

const soundProgram = `set a 1
add a 2
mul a a
mod a 5
snd a
set a 0
rcv a
jgz a -1
set a 1
jgz a -2
`

const messageProgram = `snd 1
snd 2
snd p
rcv a
rcv b
rcv c
rcv d
`

func TestParse(t *testing.T) {
	prog, err := ParseString(soundProgram)
	require.NoError(t, err)
	require.Len(t, prog, 10)

	assert.Equal(t, "set a 1", prog[0].String())
	assert.Equal(t, "jgz a -2", prog[9].String())
	assert.Equal(t, 10, prog[9].Line)
}

func TestParseErrors(t *testing.T) {
	for src, want := range map[string]string{
		"nop a":         "line 1: unknown instruction",
		"set a":         "line 1: set expects 2 operands",
		"\nset 1 2":     "line 2: set must write to a register",
		"rcv 5":         "line 1: rcv must write to a register",
		"add a B":       "line 1: operand 2",
		"jgz 1 2 3":     "line 1: jgz expects 2 operands",
		"snd a\nmod a ": "line 2: mod expects 2 operands",
	} {
		_, err := ParseString(src)
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), want, src)

		var perr *Error
		assert.True(t, errors.As(err, &perr), src)
	}
}

func TestRecover(t *testing.T) {
	prog, err := ParseString(soundProgram)
	require.NoError(t, err)

	v, err := Recover(prog)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	prog, err = ParseString("set a 3\nrcv a")
	require.NoError(t, err)
	_, err = Recover(prog)
	assert.Error(t, err)
}

func TestSoundModeSuspends(t *testing.T) {
	prog, err := ParseString(soundProgram)
	require.NoError(t, err)

	m := New(prog, WithSound())

	state, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Suspend(4), state)

	state, err = m.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Terminate(4), state)

	_, err = m.Run()
	assert.True(t, errors.Is(err, vm.ErrHalted))
}

func TestMessageMode(t *testing.T) {
	prog, err := ParseString(messageProgram)
	require.NoError(t, err)

	m := New(prog, WithID(7))
	assert.Equal(t, int64(7), m.Register('p'))

	var out []int64
	for {
		state, err := m.Run()
		require.NoError(t, err)
		if state.Kind == vm.AwaitingInput {
			break
		}
		out = append(out, state.Value)
	}
	assert.Equal(t, []int64{1, 2, 7}, out)
	assert.Equal(t, 3, m.IP())

	m.Input(10, 20, 30)
	state, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Await(), state)
	assert.Equal(t, 6, m.IP())
	assert.Equal(t, int64(30), m.Register('c'))

	m.Input(40)
	state, err = m.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Terminate(7), state)
	assert.Equal(t, int64(40), m.Register('d'))
}

func TestDuet(t *testing.T) {
	prog, err := ParseString(messageProgram)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sent, err := Duet(ctx, prog)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
}

func TestModuloByZero(t *testing.T) {
	prog, err := ParseString("set a 5\nmod a b\nsnd a")
	require.NoError(t, err)

	m := New(prog)
	_, err = m.Run()
	require.True(t, errors.Is(err, vm.ErrInvalidOperand), "%v", err)

	_, again := m.Run()
	assert.Equal(t, err, again)
	assert.Equal(t, 1, m.IP())
}
