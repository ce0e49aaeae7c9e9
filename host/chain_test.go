package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/rvm/cpu"
	"github.com/hexaflex/rvm/vm"
)

func TestChain(t *testing.T) {
	for _, c := range []struct {
		program []int64
		phases  []int64
		want    int64
	}{
		{
			[]int64{3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0},
			[]int64{4, 3, 2, 1, 0},
			43210,
		},
		{
			[]int64{3, 23, 3, 24, 1002, 24, 10, 24, 1002, 23, -1, 23, 101, 5, 23, 23, 1, 24, 23, 23, 4, 23, 99, 0, 0},
			[]int64{0, 1, 2, 3, 4},
			54321,
		},
	} {
		have, err := Chain(c.program, c.phases, 0)
		require.NoError(t, err)
		assert.Equal(t, c.want, have)

		best, order, err := MaxSignal(c.program, []int64{0, 1, 2, 3, 4}, false)
		require.NoError(t, err)
		assert.Equal(t, c.want, best)
		assert.Equal(t, c.phases, order)
	}
}

func TestFeedback(t *testing.T) {
	program := []int64{
		3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26,
		27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5,
	}

	have, err := Feedback(program, []int64{9, 8, 7, 6, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(139629729), have)

	for i := 0; i < 3; i++ {
		best, order, err := MaxSignal(program, []int64{5, 6, 7, 8, 9}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(139629729), best)
		assert.Equal(t, []int64{9, 8, 7, 6, 5}, order)
	}
}

func TestSeriesErrors(t *testing.T) {
	_, err := Series([]vm.Machine{cpu.New([]int64{99})}, 1)
	assert.Error(t, err)

	_, err = Series([]vm.Machine{cpu.New([]int64{3, 0, 3, 0, 99})}, 1)
	assert.True(t, errors.Is(err, vm.ErrInputExhausted), "%v", err)

	_, err = Series([]vm.Machine{cpu.New([]int64{42})}, 1)
	assert.True(t, errors.Is(err, vm.ErrInvalidOpcode), "%v", err)
}

func TestRingDeadlock(t *testing.T) {
	machines := []vm.Machine{
		cpu.New([]int64{3, 0, 3, 0, 99}),
		cpu.New([]int64{3, 0, 99}),
	}

	_, err := Ring(machines, 1)
	assert.True(t, errors.Is(err, vm.ErrDeadlock), "%v", err)

	_, err = Ring(nil, 1)
	assert.Error(t, err)
}

func TestPermutations(t *testing.T) {
	perms := Permutations([]int64{1, 2, 3, 4})
	assert.Len(t, perms, 24)

	seen := make(map[[4]int64]bool)
	for _, p := range perms {
		require.Len(t, p, 4)
		seen[[4]int64{p[0], p[1], p[2], p[3]}] = true
	}
	assert.Len(t, seen, 24)

	assert.Equal(t, [][]int64{{}}, Permutations(nil))
}
