// Package disasm drives the decoder over a whole byte stream and hands each
// decoded instruction to a Sink.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"sim8086/internal/decoder"
	"sim8086/internal/isa"
)

// Inst is one decoded instruction together with where it came from.
type Inst struct {
	Offset      int             // offset of the first byte in the input
	Raw         []byte          // encoding, shares memory with the input
	Instruction isa.Instruction // decoded form
}

// Text is the instruction in listing form, e.g. "MOV CX, BX".
func (i Inst) Text() string {
	return i.Instruction.String()
}

// Hex returns the raw encoding as space separated hex bytes.
func (i Inst) Hex() string {
	var b strings.Builder
	for n, c := range i.Raw {
		if n > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// Emit appends inst, so a *Stream can be used as a Sink.
func (s *Stream) Emit(inst Inst) error {
	*s = append(*s, inst)
	return nil
}

// State of a Disassembler.
type State int

const (
	Reading State = iota // bytes remain
	Done                 // cursor reached the end or decoding failed
)

func (s State) String() string {
	if s == Done {
		return "done"
	}
	return "reading"
}

// Disassembler owns the cursor over an immutable input.
type Disassembler struct {
	src    []byte
	pos    int
	state  State
	err    error
	logger *log.Logger
}

// Option configures a Disassembler.
type Option func(*Disassembler)

// WithLogger logs every decoded instruction at debug level.
func WithLogger(l *log.Logger) Option {
	return func(d *Disassembler) {
		d.logger = l
	}
}

// New returns a Disassembler positioned at the start of src.
func New(src []byte, opts ...Option) *Disassembler {
	d := &Disassembler{src: src}
	for _, opt := range opts {
		opt(d)
	}
	if len(src) == 0 {
		d.state = Done
	}
	return d
}

// Offset is the position of the next instruction.
func (d *Disassembler) Offset() int {
	return d.pos
}

// State reports whether more instructions can be read.
func (d *Disassembler) State() State {
	return d.state
}

// Err returns the decode error that stopped the Disassembler, if any.
func (d *Disassembler) Err() error {
	return d.err
}

// Step decodes the instruction at the cursor and advances past it. It
// returns io.EOF once the input is exhausted. After a decode error the
// cursor stays on the failing instruction and the Disassembler is Done.
func (d *Disassembler) Step() (Inst, error) {
	if d.state == Done {
		if d.err != nil {
			return Inst{}, d.err
		}
		return Inst{}, io.EOF
	}

	inst, n, err := decoder.Decode(d.src, d.pos)
	if err == io.EOF {
		d.state = Done
		return Inst{}, io.EOF
	}
	if err != nil {
		d.state, d.err = Done, err
		if d.logger != nil {
			d.logger.Debug("decode failed", "offset", d.pos, "err", err)
		}
		return Inst{}, err
	}

	out := Inst{Offset: d.pos, Raw: d.src[d.pos : d.pos+n : d.pos+n], Instruction: inst}
	d.pos += n
	if d.pos >= len(d.src) {
		d.state = Done
	}
	if d.logger != nil {
		d.logger.Debug("decoded", "offset", out.Offset, "bytes", out.Hex(), "form", inst.Form, "text", out.Text())
	}
	return out, nil
}

// Run decodes until the input is exhausted, forwarding each instruction to
// sink. It stops at the first decode or sink error.
func (d *Disassembler) Run(sink Sink) error {
	for {
		inst, err := d.Step()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sink.Emit(inst); err != nil {
			return fmt.Errorf("emit instruction at 0x%04x: %w", inst.Offset, err)
		}
	}
}

// Disassemble decodes all of src. On failure the instructions decoded so
// far are returned along with the error.
func Disassemble(src []byte, opts ...Option) (Stream, error) {
	var s Stream
	err := New(src, opts...).Run(&s)
	return s, err
}
