package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"sim8086/internal/decoder"
)

var checkedListing = []byte{
	0x89, 0xd9, // MOV CX, BX
	0x88, 0xe0, // MOV AL, AH
	0xb1, 0x0c, // MOV CL, 12
	0xb9, 0x0c, 0x00, // MOV CX, 12
	0x8a, 0x00, // MOV AL, [BX + SI]
	0x89, 0x4e, 0x0a, // MOV [BP + 10], CX
	0x8b, 0x41, 0xdb, // MOV AX, [BX + DI - 37]
	0x8b, 0x2e, 0x05, 0x00, // MOV BP, [0x0005]
	0xc6, 0x03, 0x07, // MOV [BP + DI], BYTE 7
	0xc7, 0x85, 0x85, 0x03, 0x5b, 0x01, // MOV [DI + 901], WORD 347
	0xa1, 0xfb, 0x09, // MOV AX, [0x09FB]
	0xa3, 0x0f, 0x00, // MOV [0x000F], AX
}

func TestCrossCheck(t *testing.T) {
	count, bad, err := crossCheck(checkedListing)
	if err != nil {
		t.Fatalf("crossCheck() error = %v", err)
	}
	if count != 12 {
		t.Errorf("count = %d, want 12", count)
	}
	for _, m := range bad {
		t.Errorf("mismatch: %s", m)
	}
}

func TestRunCheck(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runCheck(&buf, testImage(t, checkedListing...)); err != nil {
			t.Fatalf("runCheck() error = %v", err)
		}
		if got := buf.String(); got != "ok: 12 instructions match x86asm\n" {
			t.Errorf("output = %q", got)
		}
	})

	t.Run("decode failure", func(t *testing.T) {
		var buf bytes.Buffer
		err := runCheck(&buf, testImage(t, 0x89, 0xd9, 0xf4))
		if !errors.Is(err, decoder.ErrUnsupportedOpcode) {
			t.Fatalf("runCheck() error = %v, want ErrUnsupportedOpcode", err)
		}
		if strings.Contains(buf.String(), "ok:") {
			t.Error("failure reported as ok")
		}
	})
}

func TestMismatchString(t *testing.T) {
	m := mismatch{Offset: 4, Text: "MOV CL, 12", Len: 2, RefLen: 3, RefOp: "MOV"}
	want := "0004: MOV CL, 12: length 2, reference MOV length 3"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
