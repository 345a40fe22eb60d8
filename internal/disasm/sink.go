package disasm

import (
	"fmt"
	"io"
	"strings"
)

// Sink receives decoded instructions in stream order.
type Sink interface {
	Emit(inst Inst) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(inst Inst) error

func (f SinkFunc) Emit(inst Inst) error {
	return f(inst)
}

// TextSink writes one listing line per instruction.
type TextSink struct {
	W io.Writer

	Lowercase bool // nasm style lower case
	ShowBytes bool // prefix with offset and raw bytes

	// Colorize, if set, is applied to every line before it is written.
	Colorize func(line string) string
}

func (s *TextSink) Emit(inst Inst) error {
	line := s.Line(inst)
	if s.Colorize != nil {
		line = s.Colorize(line)
	}
	_, err := fmt.Fprintln(s.W, line)
	return err
}

// Line formats inst the way Emit writes it, without colour.
func (s *TextSink) Line(inst Inst) string {
	text := inst.Text()
	if s.Lowercase {
		text = strings.ToLower(text)
	}
	if s.ShowBytes {
		// nasm comment syntax keeps the listing assemblable
		return fmt.Sprintf("%-28s ; %04x: %s", text, inst.Offset, inst.Hex())
	}
	return text
}

// JSONInst is the JSON form of one instruction.
type JSONInst struct {
	Offset int    `json:"offset"`
	Bytes  string `json:"bytes"`
	Text   string `json:"text"`
	Form   string `json:"form"`
	Dst    string `json:"dst"`
	Src    string `json:"src"`
}

// JSONSink collects instructions for JSON output.
type JSONSink struct {
	Insts []JSONInst
}

func (s *JSONSink) Emit(inst Inst) error {
	s.Insts = append(s.Insts, JSONInst{
		Offset: inst.Offset,
		Bytes:  inst.Hex(),
		Text:   inst.Text(),
		Form:   inst.Instruction.Form.String(),
		Dst:    inst.Instruction.Dst.String(),
		Src:    inst.Instruction.Src.String(),
	})
	return nil
}
