package isa

import "fmt"

// Field returns the width bits of b starting at first, right-justified.
// Bits are numbered 1 to 8 from the most significant bit, the way the
// 8086 manual draws them.
//
// Field widths are fixed by the instruction format being decoded, so an
// out of range request is a programming error and panics.
func Field(b byte, first, width uint8) uint8 {
	if first < 1 || width < 1 || int(first)+int(width)-1 > 8 {
		panic(fmt.Sprintf("isa: bit field [%d,+%d) outside of a byte", first, width))
	}
	shift := 8 - (first + width - 1)
	mask := byte(1)<<width - 1
	return (b >> shift) & mask
}
