package cpu

import "github.com/hexaflex/rvm/vm"

// MaxMemory is the largest number of cells a growable memory bank will
// extend to.
const MaxMemory = 1 << 24

// Memory defines a machine's memory bank.
//
// A fixed bank treats every address outside of [0, Len()) as out of bounds.
// A growable bank reads unwritten addresses as zero and extends itself,
// zero-filled, on the first write past its end.
type Memory struct {
	cells []int64
	grow  bool
}

// NewMemory creates a memory bank holding a copy of the given image.
func NewMemory(image []int64, growable bool) *Memory {
	cells := make([]int64, len(image))
	copy(cells, image)
	return &Memory{cells: cells, grow: growable}
}

// Len returns the number of cells currently allocated.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Growable returns true if the bank extends on out of range writes.
func (m *Memory) Growable() bool {
	return m.grow
}

// Read returns the value at the given address.
func (m *Memory) Read(addr int64) (int64, error) {
	if addr >= 0 && addr < int64(len(m.cells)) {
		return m.cells[addr], nil
	}
	if m.grow && addr >= 0 && addr < MaxMemory {
		return 0, nil
	}
	return 0, m.outOfBounds(addr)
}

// Write sets the value at the given address.
func (m *Memory) Write(addr, value int64) error {
	if addr >= 0 && addr < int64(len(m.cells)) {
		m.cells[addr] = value
		return nil
	}
	if !m.grow || addr < 0 || addr >= MaxMemory {
		return m.outOfBounds(addr)
	}

	if addr >= int64(cap(m.cells)) {
		size := min(2*(addr+1), MaxMemory)
		cells := make([]int64, addr+1, size)
		copy(cells, m.cells)
		m.cells = cells
	} else {
		m.cells = m.cells[:addr+1]
	}

	m.cells[addr] = value
	return nil
}

// Slice returns a copy of the allocated cells.
func (m *Memory) Slice() []int64 {
	out := make([]int64, len(m.cells))
	copy(out, m.cells)
	return out
}

func (m *Memory) outOfBounds(addr int64) error {
	if m.grow {
		return vm.NewError(vm.OutOfBounds, 0, "", "address %d outside of [0, %d)", addr, MaxMemory)
	}
	return vm.NewError(vm.OutOfBounds, 0, "", "address %d outside of [0, %d)", addr, len(m.cells))
}
