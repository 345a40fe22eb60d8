package decoder

import "encoding/binary"

// reader walks the bytes of a single instruction. It never outlives the
// Decode call that created it.
type reader struct {
	src    []byte
	start  int
	pos    int
	opcode byte
}

func newReader(src []byte, off int) *reader {
	return &reader{src: src, start: off, pos: off}
}

// consumed is the number of bytes read since the instruction started.
func (r *reader) consumed() int {
	return r.pos - r.start
}

func (r *reader) fail(stage string, err error) *DecodeError {
	return &DecodeError{Offset: r.start, Byte: r.opcode, Stage: stage, Err: err}
}

func (r *reader) next(stage string) (byte, error) {
	if r.pos >= len(r.src) {
		return 0, r.fail(stage, ErrTruncatedStream)
	}
	b := r.src[r.pos]
	r.pos++
	return b, nil
}

// word reads a little endian 16-bit value.
func (r *reader) word(stage string) (uint16, error) {
	if len(r.src)-r.pos < 2 {
		r.pos = len(r.src)
		return 0, r.fail(stage, ErrTruncatedStream)
	}
	v := binary.LittleEndian.Uint16(r.src[r.pos:])
	r.pos += 2
	return v, nil
}
