package arch

// AddressMode defines instruction operand address modes.
type AddressMode byte

// Known address modes.
const (
	Position  AddressMode = 0 // x = mem[123]
	Immediate AddressMode = 1 // x = 123
	Relative  AddressMode = 2 // x = mem[rb+123]
)

// Valid returns true if m is usable within instruction set s.
func (m AddressMode) Valid(s Set) bool {
	switch m {
	case Position, Immediate:
		return true
	case Relative:
		return s.Has(Extended)
	}
	return false
}

// Prefix returns the assembler prefix for m.
func (m AddressMode) Prefix() string {
	switch m {
	case Immediate:
		return "#"
	case Relative:
		return "~"
	}
	return ""
}
