package isa

import (
	"fmt"
	"strconv"
)

// Operand is one side of a decoded instruction: a Register, a Memory
// reference or an Immediate.
type Operand interface {
	fmt.Stringer
	operand()
}

func (Register) operand()  {}
func (Memory) operand()    {}
func (Immediate) operand() {}

// Memory is a memory operand. Either Direct is set and Address holds the
// absolute address, or Components and the optional displacement describe a
// register relative address.
type Memory struct {
	Components Components

	// HasDisp is set when displacement bytes were present in the encoding,
	// even if they encode zero. DispWidth says whether one or two bytes.
	HasDisp   bool
	Disp      int16
	DispWidth Width

	Direct  bool
	Address uint16
}

func (m Memory) String() string {
	if m.Direct {
		return fmt.Sprintf("[0x%04X]", m.Address)
	}
	ea := m.Components.String()
	switch {
	case !m.HasDisp || m.Disp == 0:
	case m.Disp < 0:
		// widen first, -(-32768) does not fit in int16
		ea += " - " + strconv.Itoa(-int(m.Disp))
	default:
		ea += " + " + strconv.Itoa(int(m.Disp))
	}
	return "[" + ea + "]"
}

// Immediate is an inline constant. Byte immediates keep their raw bit
// pattern (0..255), word immediates are the raw 16 bits.
type Immediate struct {
	Value int16
	Width Width
}

func (i Immediate) String() string {
	return strconv.Itoa(int(i.Value))
}
