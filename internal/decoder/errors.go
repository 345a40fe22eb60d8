package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedStream means the input ended inside an instruction whose
	// format was already known.
	ErrTruncatedStream = errors.New("truncated instruction stream")

	// ErrUnsupportedOpcode means the first byte matched none of the MOV
	// encodings.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	// ErrInvalidFieldCombination means the fields decoded fine on their own
	// but their combination is not a valid MOV.
	ErrInvalidFieldCombination = errors.New("invalid field combination")
)

// Decode stages reported in DecodeError.Stage.
const (
	StageOpcode       = "opcode"
	StageModRegRM     = "mod/reg/rm"
	StageDisplacement = "displacement"
	StageAddress      = "address"
	StageImmediate    = "immediate"
)

// DecodeError reports where and why decoding stopped. It unwraps to one of
// the Err* sentinels.
type DecodeError struct {
	Offset int    // offset of the instruction's first byte
	Byte   byte   // the instruction's first byte
	Stage  string // one of the Stage* constants
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset 0x%04x: opcode 0x%02x (%08b): %s: %v", e.Offset, e.Byte, e.Byte, e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
