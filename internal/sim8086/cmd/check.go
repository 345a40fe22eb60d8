package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/arch/x86/x86asm"

	"sim8086/internal/disasm"
	"sim8086/internal/image"
	"sim8086/internal/sim8086/log"
)

// errMismatch is returned when the reference decoder disagrees.
var errMismatch = errors.New("reference decoder disagrees")

// mismatch is one instruction the reference decoder read differently.
type mismatch struct {
	Offset int
	Text   string
	Len    int
	RefLen int
	RefOp  string
}

func (m mismatch) String() string {
	return fmt.Sprintf("%04x: %s: length %d, reference %s length %d", m.Offset, m.Text, m.Len, m.RefOp, m.RefLen)
}

// crossCheck decodes src and compares every instruction's length and
// opcode with x86asm in 16-bit mode.
func crossCheck(src []byte, opts ...disasm.Option) (int, []mismatch, error) {
	var (
		count int
		bad   []mismatch
	)
	err := disasm.New(src, opts...).Run(disasm.SinkFunc(func(inst disasm.Inst) error {
		count++
		m := mismatch{Offset: inst.Offset, Text: inst.Text(), Len: len(inst.Raw)}

		ref, err := x86asm.Decode(src[inst.Offset:], 16)
		if err != nil {
			m.RefOp = fmt.Sprintf("error (%v)", err)
			bad = append(bad, m)
			return nil
		}
		m.RefLen = ref.Len
		m.RefOp = ref.Op.String()
		if ref.Len != m.Len || ref.Op != x86asm.MOV {
			bad = append(bad, m)
		}
		return nil
	}))
	return count, bad, err
}

func runCheck(w io.Writer, im *image.Image, opts ...disasm.Option) error {
	count, bad, err := crossCheck(im.Bytes, opts...)
	for _, m := range bad {
		fmt.Fprintln(w, m)
	}
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	slog.Debug("Cross-checked image", "instructions", count, "mismatches", len(bad))
	if len(bad) > 0 {
		return fmt.Errorf("%d of %d instructions: %w", len(bad), count, errMismatch)
	}
	fmt.Fprintf(w, "ok: %d instructions match x86asm\n", count)
	return nil
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Cross-check the decoder against x86asm",
	Long: `Decode a file and compare the length and opcode of every instruction with
golang.org/x/arch/x86/x86asm in 16-bit mode. Exits non-zero on any mismatch.`,
	Example: `
# Check a listing
sim8086 check listing_0039_more_movs
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(cfg.LogLevel)
		opts, closeLogger := decodeOptions(cfg)
		defer closeLogger()

		im, err := image.Open(args[0])
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), im, opts...)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
