package isa

import "strings"

// Components holds the base and index registers of an effective address.
// Unused slots are NoRegister.
type Components [2]Register

// Len returns the number of registers in use.
func (c Components) Len() int {
	n := 0
	for _, r := range c {
		if r != NoRegister {
			n++
		}
	}
	return n
}

func (c Components) String() string {
	parts := make([]string, 0, len(c))
	for _, r := range c {
		if r != NoRegister {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, " + ")
}

// Effective address by r/m field (table 4-10), used when MOD != 11.
//
//	| R/M | EA      |
//	|-----|---------|
//	| 000 | BX + SI |
//	| 001 | BX + DI |
//	| 010 | BP + SI |
//	| 011 | BP + DI |
//	| 100 | SI      |
//	| 101 | DI      |
//	| 110 | BP      | direct address when MOD = 00
//	| 111 | BX      |
var effectiveAddressTable = [8]Components{
	{BX, SI},
	{BX, DI},
	{BP, SI},
	{BP, DI},
	{SI},
	{DI},
	{BP},
	{BX},
}

// EffectiveAddress returns the registers summed for an r/m code.
func EffectiveAddress(rm uint8) Components {
	return effectiveAddressTable[rm]
}

// IsDirectAddress reports the one MOD/RM combination where the 16-bit field
// after the addressing byte is an absolute address instead of a
// displacement added to BP.
func IsDirectAddress(mod, rm uint8) bool {
	return mod == ModMemory && rm == 0b110
}

// MOD field values.
const (
	ModMemory   = 0b00 // no displacement, except the direct address case
	ModMemory8  = 0b01 // 8-bit displacement, sign extended
	ModMemory16 = 0b10 // 16-bit displacement
	ModRegister = 0b11 // r/m names a register
)
