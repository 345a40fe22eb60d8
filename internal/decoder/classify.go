package decoder

import "sim8086/internal/isa"

// Pattern matches the leading bits of an opcode byte: b&Mask == Bits.
type Pattern struct {
	Mask byte
	Bits byte
	Form isa.Form
}

// Matches reports whether b starts with the pattern's bits.
func (p Pattern) Matches(b byte) bool {
	return b&p.Mask == p.Bits
}

// Opcode patterns in precedence order. A shorter prefix must never come
// before a longer one it could shadow.
//
//	| opcode   | form                             |
//	|----------|----------------------------------|
//	| 1011wreg | immediate to register            |
//	| 100010dw | register/memory to/from register |
//	| 1100011w | immediate to register/memory     |
//	| 1010000w | memory to accumulator            |
//	| 1010001w | accumulator to memory            |
var patterns = [...]Pattern{
	{Mask: 0b11110000, Bits: 0b10110000, Form: isa.FormImmediateToRegister},
	{Mask: 0b11111100, Bits: 0b10001000, Form: isa.FormRegMemToFromRegister},
	{Mask: 0b11111110, Bits: 0b11000110, Form: isa.FormImmediateToRegMem},
	{Mask: 0b11111110, Bits: 0b10100000, Form: isa.FormMemoryToAccumulator},
	{Mask: 0b11111110, Bits: 0b10100010, Form: isa.FormAccumulatorToMemory},
}

// Patterns returns a copy of the classifier table in the order it is tried.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns[:])
	return out
}

// Classify returns the form of the first pattern b matches.
func Classify(b byte) (isa.Form, bool) {
	for _, p := range patterns {
		if p.Matches(b) {
			return p.Form, true
		}
	}
	return isa.FormUnknown, false
}
