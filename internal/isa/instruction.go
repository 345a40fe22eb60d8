package isa

import "fmt"

// Form identifies which MOV encoding an instruction was decoded from.
type Form uint8

const (
	FormUnknown Form = iota
	FormImmediateToRegister
	FormRegMemToFromRegister
	FormImmediateToRegMem
	FormMemoryToAccumulator
	FormAccumulatorToMemory
)

var formNames = [...]string{
	FormUnknown:              "unknown",
	FormImmediateToRegister:  "immediate to register",
	FormRegMemToFromRegister: "register/memory to/from register",
	FormImmediateToRegMem:    "immediate to register/memory",
	FormMemoryToAccumulator:  "memory to accumulator",
	FormAccumulatorToMemory:  "accumulator to memory",
}

func (f Form) String() string {
	if int(f) < len(formNames) {
		return formNames[f]
	}
	return fmt.Sprintf("form(%d)", uint8(f))
}

// Forms lists every known form in classifier order.
func Forms() []Form {
	return []Form{
		FormImmediateToRegister,
		FormRegMemToFromRegister,
		FormImmediateToRegMem,
		FormMemoryToAccumulator,
		FormAccumulatorToMemory,
	}
}

// Mnemonic of every instruction this package models.
const MOV = "MOV"

// Instruction is one decoded instruction. It holds only values, so two
// decodes of the same bytes compare equal with ==.
type Instruction struct {
	Mnemonic string
	Form     Form
	Width    Width
	Dst      Operand
	Src      Operand
}

// String renders the instruction as nasm accepts it, e.g. "MOV CX, BX".
// An immediate stored to memory carries its size since nasm can't infer it.
func (i Instruction) String() string {
	src := i.Src.String()
	if imm, ok := i.Src.(Immediate); ok {
		if _, mem := i.Dst.(Memory); mem {
			src = imm.Width.String() + " " + src
		}
	}
	return fmt.Sprintf("%s %s, %s", i.Mnemonic, i.Dst, src)
}
