package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexaflex/rvm/vm"
)

// addTen reads one value and outputs it plus ten.
const addTen = "3,9,1001,9,10,9,4,9,99,0\n"

func TestRunImage(t *testing.T) {
	c := &Config{Image: writeFile(t, "add.img", addTen), Input: []int64{5}, Trace: true}

	var out, trace bytes.Buffer
	require.NoError(t, run(context.Background(), c, zap.NewNop(), &out, &trace))
	assert.Equal(t, "15\n", out.String())
	assert.Contains(t, trace.String(), "0000  in 9")
	assert.Contains(t, trace.String(), "0008  halt")
}

func TestRunImageNeedsInput(t *testing.T) {
	c := &Config{Image: writeFile(t, "add.img", addTen)}

	var out bytes.Buffer
	err := run(context.Background(), c, zap.NewNop(), &out, nil)
	assert.True(t, errors.Is(err, vm.ErrInputExhausted), "%v", err)
	assert.Empty(t, out.String())
}

func TestRunPhases(t *testing.T) {
	c := &Config{
		Image:  writeFile(t, "amp.img", "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"),
		Phases: []int64{0, 1, 2, 3, 4},
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, zap.NewNop(), &out, nil))
	assert.Equal(t, "43210 [4 3 2 1 0]\n", out.String())
}

func TestRunDuet(t *testing.T) {
	sound := "set a 1\nadd a 2\nmul a a\nmod a 5\nsnd a\nset a 0\nrcv a\njgz a -1\nset a 1\njgz a -2\n"
	message := "snd 1\nsnd 2\nsnd p\nrcv a\nrcv b\nrcv c\nrcv d\n"

	for _, c := range []struct {
		src   string
		sound bool
		want  string
	}{
		{sound, true, "4\n"},
		{message, false, "3\n"},
	} {
		cfg := &Config{Image: writeFile(t, "prog.duet", c.src), Duet: true, Sound: c.sound}

		var out bytes.Buffer
		require.NoError(t, run(context.Background(), cfg, zap.NewNop(), &out, nil))
		assert.Equal(t, c.want, out.String())
	}
}

func TestParseInts(t *testing.T) {
	have, err := parseInts(" 1, -2,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, have)

	have, err = parseInts("")
	require.NoError(t, err)
	assert.Empty(t, have)

	_, err = parseInts("1,x")
	assert.Error(t, err)
}

func TestPrettyFrequency(t *testing.T) {
	assert.Equal(t, "12.00 Hz", prettyFrequency(12))
	assert.Equal(t, "1.50 KHz", prettyFrequency(1500))
	assert.Equal(t, "2.00 MHz", prettyFrequency(2e6))
	assert.Equal(t, "3.25 GHz", prettyFrequency(3.25e9))
}

func writeFile(t *testing.T, name, data string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))
	return file
}
