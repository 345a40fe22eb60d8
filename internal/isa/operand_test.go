package isa

import "testing"

func TestOperandString(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		want string
	}{
		{name: "register", op: CX, want: "CX"},
		{name: "two components", op: Memory{Components: Components{BX, SI}}, want: "[BX + SI]"},
		{name: "positive disp", op: Memory{Components: Components{BP}, HasDisp: true, Disp: 10, DispWidth: Byte}, want: "[BP + 10]"},
		{name: "negative disp", op: Memory{Components: Components{BX, DI}, HasDisp: true, Disp: -37, DispWidth: Byte}, want: "[BX + DI - 37]"},
		{name: "min disp", op: Memory{Components: Components{SI}, HasDisp: true, Disp: -32768, DispWidth: Word}, want: "[SI - 32768]"},
		{name: "zero disp", op: Memory{Components: Components{BP}, HasDisp: true, DispWidth: Byte}, want: "[BP]"},
		{name: "direct", op: Memory{Direct: true, Address: 0x0201}, want: "[0x0201]"},
		{name: "byte immediate", op: Immediate{Value: 255, Width: Byte}, want: "255"},
		{name: "word immediate", op: Immediate{Value: -1, Width: Word}, want: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want string
	}{
		{
			name: "register to register",
			inst: Instruction{Mnemonic: MOV, Form: FormRegMemToFromRegister, Width: Word, Dst: CX, Src: BX},
			want: "MOV CX, BX",
		},
		{
			name: "immediate to register",
			inst: Instruction{Mnemonic: MOV, Form: FormImmediateToRegister, Width: Byte, Dst: CL, Src: Immediate{Value: 12, Width: Byte}},
			want: "MOV CL, 12",
		},
		{
			name: "immediate to memory",
			inst: Instruction{Mnemonic: MOV, Form: FormImmediateToRegMem, Width: Word, Dst: Memory{Components: Components{DI}}, Src: Immediate{Value: 512, Width: Word}},
			want: "MOV [DI], WORD 512",
		},
		{
			name: "accumulator to memory",
			inst: Instruction{Mnemonic: MOV, Form: FormAccumulatorToMemory, Width: Byte, Dst: Memory{Direct: true, Address: 16}, Src: AL},
			want: "MOV [0x0010], AL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
