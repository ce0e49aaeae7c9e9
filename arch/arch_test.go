package arch

import "testing"

func TestOpcodeNames(t *testing.T) {
	for _, op := range []int{ADD, MUL, IN, OUT, JNZ, JEZ, CLT, CEQ, ARB, HALT} {
		name, ok := Name(op)
		if !ok {
			t.Fatalf("no name for opcode %d", op)
		}

		have, ok := Opcode(name)
		if !ok || have != op {
			t.Fatalf("Opcode(%q): want %d; have %d", name, op, have)
		}
	}
}

func TestArgc(t *testing.T) {
	for _, c := range []struct {
		set    Set
		opcode int
		want   int
	}{
		{Base, ADD, 3},
		{Base, CEQ, 3},
		{Base, JEZ, 2},
		{Base, OUT, 1},
		{Base, HALT, 0},
		{Base, ARB, -1},
		{Extended, ARB, 1},
		{Extended, 42, -1},
	} {
		if have := Argc(c.set, c.opcode); have != c.want {
			t.Fatalf("Argc(%d, %d): want %d; have %d", c.set, c.opcode, c.want, have)
		}
	}
}

func TestAddressModeValid(t *testing.T) {
	if !Immediate.Valid(Base) || !Position.Valid(Base) {
		t.Fatal("base modes must be valid in the base set")
	}
	if Relative.Valid(Base) {
		t.Fatal("relative mode must be rejected by the base set")
	}
	if !Relative.Valid(Extended) {
		t.Fatal("relative mode must be accepted by the extended set")
	}
	if AddressMode(3).Valid(Extended) {
		t.Fatal("mode 3 must never be valid")
	}
}
