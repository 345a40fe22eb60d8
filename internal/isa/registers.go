package isa

// Width is the operand size selected by the w bit.
type Width uint8

const (
	Byte Width = 0
	Word Width = 1
)

// Bytes returns the number of bytes an immediate or a displacement of
// this width occupies.
func (w Width) Bytes() int {
	if w == Word {
		return 2
	}
	return 1
}

func (w Width) String() string {
	if w == Word {
		return "WORD"
	}
	return "BYTE"
}

// Register is a general purpose 8086 register.
type Register uint8

const (
	NoRegister Register = iota

	AL
	CL
	DL
	BL
	AH
	CH
	DH
	BH

	AX
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var registerNames = [...]string{
	NoRegister: "",
	AL:         "AL",
	CL:         "CL",
	DL:         "DL",
	BL:         "BL",
	AH:         "AH",
	CH:         "CH",
	DH:         "DH",
	BH:         "BH",
	AX:         "AX",
	CX:         "CX",
	DX:         "DX",
	BX:         "BX",
	SP:         "SP",
	BP:         "BP",
	SI:         "SI",
	DI:         "DI",
}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "?"
}

// Width reports whether r is a byte or a word register.
func (r Register) Width() Width {
	if r >= AX {
		return Word
	}
	return Byte
}

// REG field encoding
//
//	| REG | W = 0 | W = 1 |
//	|-----|-------|-------|
//	| 000 | AL    | AX    |
//	| 001 | CL    | CX    |
//	| 010 | DL    | DX    |
//	| 011 | BL    | BX    |
//	| 100 | AH    | SP    |
//	| 101 | CH    | BP    |
//	| 110 | DH    | SI    |
//	| 111 | BH    | DI    |
var registerTable = [2][8]Register{
	Byte: {AL, CL, DL, BL, AH, CH, DH, BH},
	Word: {AX, CX, DX, BX, SP, BP, SI, DI},
}

// RegisterFor maps a 3-bit register code to its register for the given
// width. Codes come out of a 3-bit field, anything above 7 panics.
func RegisterFor(w Width, code uint8) Register {
	return registerTable[w][code]
}

// Accumulator returns AL or AX.
func Accumulator(w Width) Register {
	return registerTable[w][0]
}
