package decoder

import "sim8086/internal/isa"

type routine func(r *reader, op byte) (isa.Instruction, error)

var routines = [...]routine{
	isa.FormImmediateToRegister:  immediateToRegister,
	isa.FormRegMemToFromRegister: regMemToFromRegister,
	isa.FormImmediateToRegMem:    immediateToRegMem,
	isa.FormMemoryToAccumulator:  memoryToAccumulator,
	isa.FormAccumulatorToMemory:  accumulatorToMemory,
}

func mov(f isa.Form, w isa.Width, dst, src isa.Operand) isa.Instruction {
	return isa.Instruction{Mnemonic: isa.MOV, Form: f, Width: w, Dst: dst, Src: src}
}

// [100010|d|w] [mod|reg|r/m] [disp-lo] [disp-hi]
func regMemToFromRegister(r *reader, op byte) (isa.Instruction, error) {
	d := isa.Field(op, 7, 1)
	w := isa.Width(isa.Field(op, 8, 1))

	b, err := r.next(StageModRegRM)
	if err != nil {
		return isa.Instruction{}, err
	}
	f := splitModRegRM(b)

	reg := isa.RegisterFor(w, f.reg)
	rm, err := r.operand(f, w)
	if err != nil {
		return isa.Instruction{}, err
	}

	if d == 1 {
		return mov(isa.FormRegMemToFromRegister, w, reg, rm), nil
	}
	return mov(isa.FormRegMemToFromRegister, w, rm, reg), nil
}

// [1011|w|reg] [data] [data if w=1]
func immediateToRegister(r *reader, op byte) (isa.Instruction, error) {
	w := isa.Width(isa.Field(op, 5, 1))
	reg := isa.RegisterFor(w, isa.Field(op, 6, 3))

	imm, err := r.immediate(w)
	if err != nil {
		return isa.Instruction{}, err
	}
	return mov(isa.FormImmediateToRegister, w, reg, imm), nil
}

// [1100011|w] [mod|000|r/m] [disp-lo] [disp-hi] [data] [data if w=1]
func immediateToRegMem(r *reader, op byte) (isa.Instruction, error) {
	w := isa.Width(isa.Field(op, 8, 1))

	b, err := r.next(StageModRegRM)
	if err != nil {
		return isa.Instruction{}, err
	}
	f := splitModRegRM(b)
	if f.reg != 0 {
		return isa.Instruction{}, r.fail(StageModRegRM, ErrInvalidFieldCombination)
	}

	dst, err := r.operand(f, w)
	if err != nil {
		return isa.Instruction{}, err
	}
	// immediate bytes always follow the displacement
	imm, err := r.immediate(w)
	if err != nil {
		return isa.Instruction{}, err
	}
	return mov(isa.FormImmediateToRegMem, w, dst, imm), nil
}

// [1010000|w] [addr-lo] [addr-hi]
func memoryToAccumulator(r *reader, op byte) (isa.Instruction, error) {
	w := isa.Width(isa.Field(op, 8, 1))
	addr, err := r.word(StageAddress)
	if err != nil {
		return isa.Instruction{}, err
	}
	return mov(isa.FormMemoryToAccumulator, w, isa.Accumulator(w), isa.Memory{Direct: true, Address: addr}), nil
}

// [1010001|w] [addr-lo] [addr-hi]
func accumulatorToMemory(r *reader, op byte) (isa.Instruction, error) {
	w := isa.Width(isa.Field(op, 8, 1))
	addr, err := r.word(StageAddress)
	if err != nil {
		return isa.Instruction{}, err
	}
	return mov(isa.FormAccumulatorToMemory, w, isa.Memory{Direct: true, Address: addr}, isa.Accumulator(w)), nil
}
