package cpu

import (
	"github.com/hexaflex/rvm/arch"
	"github.com/hexaflex/rvm/vm"
)

// Instruction defines decoded instruction data.
type Instruction struct {
	IP     int        // Instruction address.
	Opcode int        // Instruction opcode.
	Argc   int        // Number of operands in use.
	Args   [3]Operand // Operand A, B and C.
}

// Width returns the number of memory cells the instruction occupies.
func (i *Instruction) Width() int {
	return 1 + i.Argc
}

// Name returns the instruction's mnemonic.
func (i *Instruction) Name() string {
	name, _ := arch.Name(i.Opcode)
	return name
}

// Decode decodes the instruction at address ip from the given memory bank,
// accepting only opcodes and address modes which are part of set.
func (i *Instruction) Decode(m *Memory, ip int, set arch.Set) error {
	*i = Instruction{IP: ip}

	word, err := m.Read(int64(ip))
	if err != nil {
		return err
	}

	if word < 0 {
		return vm.NewError(vm.InvalidOpcode, ip, "", "negative instruction word %d", word)
	}

	i.Opcode = int(word % 100)
	i.Argc = arch.Argc(set, i.Opcode)
	if i.Argc < 0 {
		return vm.NewError(vm.InvalidOpcode, ip, "", "unknown opcode %02d", i.Opcode)
	}

	modes := word / 100
	target := arch.Target(i.Opcode)

	for j := 0; j < i.Argc; j++ {
		op := &i.Args[j]
		op.Mode = arch.AddressMode(modes % 10)
		modes /= 10

		if !op.Mode.Valid(set) {
			return vm.NewError(vm.InvalidMode, ip, i.Name(), "unknown address mode %d for operand %d", op.Mode, j+1)
		}

		if j == target && op.Mode == arch.Immediate {
			return vm.NewError(vm.InvalidMode, ip, i.Name(), "immediate address mode on write operand %d", j+1)
		}

		if op.Value, err = m.Read(int64(ip + 1 + j)); err != nil {
			return err
		}
	}

	return nil
}

// Operand defines decoded instruction operand data.
type Operand struct {
	Mode  arch.AddressMode // Address mode.
	Value int64            // Raw operand as stored in memory.
}
