package decoder

import "sim8086/internal/isa"

// modRegRM is the second byte of the register/memory forms.
type modRegRM struct {
	mod, reg, rm uint8
}

func splitModRegRM(b byte) modRegRM {
	return modRegRM{
		mod: isa.Field(b, 1, 2),
		reg: isa.Field(b, 3, 3),
		rm:  isa.Field(b, 6, 3),
	}
}

// operand decodes the r/m side of an instruction, reading whatever
// displacement or address bytes its mode calls for.
func (r *reader) operand(f modRegRM, w isa.Width) (isa.Operand, error) {
	if f.mod == isa.ModRegister {
		return isa.RegisterFor(w, f.rm), nil
	}

	if isa.IsDirectAddress(f.mod, f.rm) {
		addr, err := r.word(StageAddress)
		if err != nil {
			return nil, err
		}
		return isa.Memory{Direct: true, Address: addr}, nil
	}

	m := isa.Memory{Components: isa.EffectiveAddress(f.rm)}
	switch f.mod {
	case isa.ModMemory8:
		b, err := r.next(StageDisplacement)
		if err != nil {
			return nil, err
		}
		// the CPU sign extends an 8-bit displacement
		m.HasDisp, m.Disp, m.DispWidth = true, int16(int8(b)), isa.Byte
	case isa.ModMemory16:
		v, err := r.word(StageDisplacement)
		if err != nil {
			return nil, err
		}
		m.HasDisp, m.Disp, m.DispWidth = true, int16(v), isa.Word
	}
	return m, nil
}

// immediate reads one or two data bytes. A byte is kept as is, not sign
// extended.
func (r *reader) immediate(w isa.Width) (isa.Immediate, error) {
	if w == isa.Word {
		v, err := r.word(StageImmediate)
		if err != nil {
			return isa.Immediate{}, err
		}
		return isa.Immediate{Value: int16(v), Width: isa.Word}, nil
	}
	b, err := r.next(StageImmediate)
	if err != nil {
		return isa.Immediate{}, err
	}
	return isa.Immediate{Value: int16(b), Width: isa.Byte}, nil
}
