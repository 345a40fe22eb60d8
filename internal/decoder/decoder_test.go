package decoder

import (
	"errors"
	"io"
	"testing"

	"sim8086/internal/isa"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
		n     int
	}{
		// register to register
		{name: "mov cx, bx", input: []byte{0b10001001, 0b11011001}, want: "MOV CX, BX", n: 2},
		{name: "byte registers d=0", input: []byte{0b10001000, 0b11100000}, want: "MOV AL, AH", n: 2},
		{name: "mov ch, ah", input: []byte{0x88, 0xe5}, want: "MOV CH, AH", n: 2},
		{name: "mov sp, di", input: []byte{0x89, 0xfc}, want: "MOV SP, DI", n: 2},
		{name: "d=1 word", input: []byte{0x8b, 0xd9}, want: "MOV BX, CX", n: 2},

		// immediate to register
		{name: "mov cl, 12", input: []byte{0b10110001, 0b00001100}, want: "MOV CL, 12", n: 2},
		{name: "mov cx, 12", input: []byte{0xb9, 0x0c, 0x00}, want: "MOV CX, 12", n: 3},
		{name: "mov cx, -12", input: []byte{0xb9, 0xf4, 0xff}, want: "MOV CX, -12", n: 3},
		{name: "mov dx, 3948", input: []byte{0xba, 0x6c, 0x0f}, want: "MOV DX, 3948", n: 3},
		{name: "byte immediate not sign extended", input: []byte{0xb1, 0xf4}, want: "MOV CL, 244", n: 2},

		// memory without displacement
		{name: "mov al, [bx + si]", input: []byte{0b10001010, 0b00000000}, want: "MOV AL, [BX + SI]", n: 2},
		{name: "mov bx, [bp + di]", input: []byte{0x8b, 0x1b}, want: "MOV BX, [BP + DI]", n: 2},
		{name: "mov [bx + di], cx", input: []byte{0x89, 0x09}, want: "MOV [BX + DI], CX", n: 2},
		{name: "mov [bp + si], cl", input: []byte{0x88, 0x0a}, want: "MOV [BP + SI], CL", n: 2},

		// 8 and 16 bit displacement
		{name: "mov [bp + 10], cx", input: []byte{0b10001001, 0b01001110, 0b00001010}, want: "MOV [BP + 10], CX", n: 3},
		{name: "mov dx, [bp]", input: []byte{0x8b, 0x56, 0x00}, want: "MOV DX, [BP]", n: 3},
		{name: "mov ah, [bx + si + 4]", input: []byte{0x8a, 0x60, 0x04}, want: "MOV AH, [BX + SI + 4]", n: 3},
		{name: "mov al, [bx + si + 4999]", input: []byte{0x8a, 0x80, 0x87, 0x13}, want: "MOV AL, [BX + SI + 4999]", n: 4},
		{name: "negative 8 bit", input: []byte{0x8b, 0x41, 0xdb}, want: "MOV AX, [BX + DI - 37]", n: 3},
		{name: "negative 16 bit", input: []byte{0x89, 0x8c, 0xd4, 0xfe}, want: "MOV [SI - 300], CX", n: 4},

		// direct address
		{name: "mov bp, [5]", input: []byte{0x8b, 0x2e, 0x05, 0x00}, want: "MOV BP, [0x0005]", n: 4},
		{name: "mov bx, [3458]", input: []byte{0x8b, 0x1e, 0x82, 0x0d}, want: "MOV BX, [0x0D82]", n: 4},

		// immediate to register/memory
		{name: "mov [bp + di], byte 7", input: []byte{0xc6, 0x03, 0x07}, want: "MOV [BP + DI], BYTE 7", n: 3},
		{name: "mov [di + 901], word 347", input: []byte{0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01}, want: "MOV [DI + 901], WORD 347", n: 6},
		{name: "immediate to register via modrm", input: []byte{0xc7, 0xc0, 0x34, 0x12}, want: "MOV AX, 4660", n: 4},
		{name: "immediate to direct address", input: []byte{0xc6, 0x06, 0x10, 0x00, 0x2a}, want: "MOV [0x0010], BYTE 42", n: 5},

		// accumulator
		{name: "mov al, [0x0201]", input: []byte{0b10100000, 0b00000001, 0b00000010}, want: "MOV AL, [0x0201]", n: 3},
		{name: "mov ax, [2555]", input: []byte{0xa1, 0xfb, 0x09}, want: "MOV AX, [0x09FB]", n: 3},
		{name: "mov [2554], ax", input: []byte{0xa3, 0xfa, 0x09}, want: "MOV [0x09FA], AX", n: 3},
		{name: "mov [15], al", input: []byte{0xa2, 0x0f, 0x00}, want: "MOV [0x000F], AL", n: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, n, err := Decode(tt.input, 0)
			if err != nil {
				t.Fatalf("Decode(% x) failed: %v", tt.input, err)
			}
			if got := inst.String(); got != tt.want {
				t.Errorf("Decode(% x) = %q, want %q", tt.input, got, tt.want)
			}
			if n != tt.n {
				t.Errorf("Decode(% x) consumed %d bytes, want %d", tt.input, n, tt.n)
			}
			if inst.Mnemonic != isa.MOV {
				t.Errorf("Mnemonic = %q", inst.Mnemonic)
			}
		})
	}
}

func TestDecodeAtOffset(t *testing.T) {
	src := []byte{0x89, 0xd9, 0xb1, 0x0c, 0xa0, 0x01, 0x02}
	want := []struct {
		text string
		n    int
	}{
		{"MOV CX, BX", 2},
		{"MOV CL, 12", 2},
		{"MOV AL, [0x0201]", 3},
	}

	off := 0
	for i, w := range want {
		inst, n, err := Decode(src, off)
		if err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
		if inst.String() != w.text || n != w.n {
			t.Errorf("instruction %d = %q (%d bytes), want %q (%d bytes)", i, inst, n, w.text, w.n)
		}
		off += n
	}
	if _, _, err := Decode(src, off); err != io.EOF {
		t.Errorf("Decode at end = %v, want io.EOF", err)
	}
}

func TestRegisterModeConsumesTwoBytes(t *testing.T) {
	for op := byte(0x88); op <= 0x8b; op++ {
		for regrm := byte(0); regrm < 64; regrm++ {
			src := []byte{op, 0b11000000 | regrm, 0xff, 0xff}
			inst, n, err := Decode(src, 0)
			if err != nil {
				t.Fatalf("Decode(% x): %v", src[:2], err)
			}
			if n != 2 {
				t.Errorf("Decode(% x) consumed %d bytes, want 2", src[:2], n)
			}
			if _, ok := inst.Dst.(isa.Register); !ok {
				t.Errorf("Decode(% x) destination %T, want register", src[:2], inst.Dst)
			}
			if _, ok := inst.Src.(isa.Register); !ok {
				t.Errorf("Decode(% x) source %T, want register", src[:2], inst.Src)
			}
		}
	}
}

func TestMemoryModeByteCounts(t *testing.T) {
	for rm := byte(0); rm < 8; rm++ {
		for _, mod := range []byte{0b00, 0b01, 0b10} {
			src := []byte{0x8b, mod<<6 | 0b011<<3 | rm, 0x34, 0x12}
			inst, n, err := Decode(src, 0)
			if err != nil {
				t.Fatalf("Decode(% x): %v", src, err)
			}

			mem, ok := inst.Src.(isa.Memory)
			if !ok {
				t.Fatalf("Decode(% x) source %T, want memory", src, inst.Src)
			}

			want := 2 + int(mod)
			switch {
			case mod == 0 && rm == 6:
				want = 4
				if !mem.Direct || mem.Address != 0x1234 || mem.Components.Len() != 0 || mem.HasDisp {
					t.Errorf("Decode(% x) = %+v, want direct address 0x1234", src, mem)
				}
			case mod == 0:
				if mem.HasDisp {
					t.Errorf("Decode(% x) has a displacement with mod=00", src)
				}
			default:
				if !mem.HasDisp || mem.Direct {
					t.Errorf("Decode(% x) = %+v, want a displacement", src, mem)
				}
			}
			if n != want {
				t.Errorf("Decode(% x) consumed %d bytes, want %d", src, n, want)
			}
		}
	}
}

func TestDisplacement(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		has   bool
		disp  int16
		width isa.Width
	}{
		{name: "mod 00", input: []byte{0x8b, 0x00}, has: false},
		{name: "8 bit zero is present", input: []byte{0x8b, 0x46, 0x00}, has: true, disp: 0, width: isa.Byte},
		{name: "8 bit sign extended", input: []byte{0x8b, 0x40, 0xff}, has: true, disp: -1, width: isa.Byte},
		{name: "8 bit positive", input: []byte{0x8b, 0x40, 0x7f}, has: true, disp: 127, width: isa.Byte},
		{name: "16 bit as is", input: []byte{0x8b, 0x80, 0x00, 0x80}, has: true, disp: -32768, width: isa.Word},
		{name: "16 bit zero is present", input: []byte{0x8b, 0x80, 0x00, 0x00}, has: true, disp: 0, width: isa.Word},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, _, err := Decode(tt.input, 0)
			if err != nil {
				t.Fatalf("Decode(% x): %v", tt.input, err)
			}
			mem := inst.Src.(isa.Memory)
			if mem.HasDisp != tt.has || mem.Disp != tt.disp {
				t.Errorf("displacement = (%v, %d), want (%v, %d)", mem.HasDisp, mem.Disp, tt.has, tt.disp)
			}
			if tt.has && mem.DispWidth != tt.width {
				t.Errorf("displacement width = %s, want %s", mem.DispWidth, tt.width)
			}
		})
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	src := []byte{0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01}
	first, n1, err1 := Decode(src, 0)
	second, n2, err2 := Decode(src, 0)
	if err1 != nil || err2 != nil {
		t.Fatalf("Decode errors: %v, %v", err1, err2)
	}
	if first != second || n1 != n2 {
		t.Errorf("Decode is not deterministic: %#v (%d) != %#v (%d)", first, n1, second, n2)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		off    int
		target error
		stage  string
		n      int
	}{
		{name: "unsupported opcode", input: []byte{0x90}, target: ErrUnsupportedOpcode, stage: StageOpcode, n: 1},
		{name: "unsupported after valid", input: []byte{0x89, 0xd9, 0x0f}, off: 2, target: ErrUnsupportedOpcode, stage: StageOpcode, n: 1},
		{name: "missing mod/reg/rm", input: []byte{0x89}, target: ErrTruncatedStream, stage: StageModRegRM, n: 1},
		{name: "missing 8 bit displacement", input: []byte{0x89, 0x4e}, target: ErrTruncatedStream, stage: StageDisplacement, n: 2},
		{name: "half 16 bit displacement", input: []byte{0x8a, 0x80, 0x87}, target: ErrTruncatedStream, stage: StageDisplacement, n: 3},
		{name: "half direct address", input: []byte{0x8b, 0x2e, 0x05}, target: ErrTruncatedStream, stage: StageAddress, n: 3},
		{name: "missing byte immediate", input: []byte{0xb1}, target: ErrTruncatedStream, stage: StageImmediate, n: 1},
		{name: "half word immediate", input: []byte{0xb9, 0x0c}, target: ErrTruncatedStream, stage: StageImmediate, n: 2},
		{name: "immediate after displacement", input: []byte{0xc7, 0x85, 0x85, 0x03, 0x5b}, target: ErrTruncatedStream, stage: StageImmediate, n: 5},
		{name: "accumulator address", input: []byte{0xa1, 0xfb}, target: ErrTruncatedStream, stage: StageAddress, n: 2},
		{name: "non zero reg in immediate form", input: []byte{0xc6, 0x48, 0x01, 0x02}, target: ErrInvalidFieldCombination, stage: StageModRegRM, n: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n, err := Decode(tt.input, tt.off)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Decode(% x) error = %v, want %v", tt.input, err, tt.target)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode(% x) error %T is not a *DecodeError", tt.input, err)
			}
			if de.Offset != tt.off || de.Byte != tt.input[tt.off] || de.Stage != tt.stage {
				t.Errorf("DecodeError = %+v, want offset %d byte %#x stage %s", de, tt.off, tt.input[tt.off], tt.stage)
			}
			if n != tt.n {
				t.Errorf("consumed %d bytes before failing, want %d", n, tt.n)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, n, err := Decode(nil, 0); err != io.EOF || n != 0 {
		t.Errorf("Decode(nil) = %d, %v, want 0, io.EOF", n, err)
	}
}
