// Package decoder turns 8086 machine code into isa.Instruction values.
//
// Decode is pure: it reads from the slice it is given, starting at an
// explicit offset, and returns how many bytes the instruction took. The
// caller owns the cursor.
package decoder

import (
	"io"

	"sim8086/internal/isa"
)

// Decode decodes the instruction starting at src[off] and returns it along
// with the number of bytes it occupies. When off is at the end of src it
// returns io.EOF; every other failure is a *DecodeError.
func Decode(src []byte, off int) (isa.Instruction, int, error) {
	r := newReader(src, off)
	op, err := r.next(StageOpcode)
	if err != nil {
		return isa.Instruction{}, 0, io.EOF
	}
	r.opcode = op

	form, ok := Classify(op)
	if !ok {
		return isa.Instruction{}, r.consumed(), r.fail(StageOpcode, ErrUnsupportedOpcode)
	}

	inst, err := routines[form](r, op)
	if err != nil {
		return isa.Instruction{}, r.consumed(), err
	}
	return inst, r.consumed(), nil
}
