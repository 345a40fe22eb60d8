package cmd

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	pathpkg "path/filepath"
	"slices"
	"strings"

	"github.com/k0kubun/pp/v3"

	"sim8086/internal/config"
	"sim8086/internal/disasm"
	"sim8086/internal/image"
	"sim8086/internal/isa"
	"sim8086/internal/sim8086/styles"
	"sim8086/internal/ui/colorize"
)

// JSONOutput represents the JSON output structure for regression testing
type JSONOutput struct {
	File         string            `json:"file"`
	Digest       string            `json:"digest"`
	Size         int               `json:"size"`
	Instructions []disasm.JSONInst `json:"instructions"`
	Error        string            `json:"error,omitempty"`
}

// listingHeader is the nasm preamble of a listing.
func listingHeader(path string) string {
	return fmt.Sprintf("; %s\nbits 16\n\n", pathpkg.Base(path))
}

// writeListing prints the listing of im. Instructions decoded before a
// failure are still printed.
func writeListing(w io.Writer, im *image.Image, cfg config.Config, opts ...disasm.Option) error {
	sink := &disasm.TextSink{
		W:         w,
		Lowercase: cfg.Lowercase,
		ShowBytes: cfg.ShowBytes,
	}
	color := !cfg.NoColor
	if color {
		sink.Colorize = colorize.Line
	}

	if cfg.Header {
		header := listingHeader(im.Path)
		if color {
			header, _ = colorize.Listing(header)
		}
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
	}

	if err := disasm.New(im.Bytes, opts...).Run(sink); err != nil {
		return fmt.Errorf("decode %s: %w", pathpkg.Base(im.Path), err)
	}
	return nil
}

func writeJSON(w io.Writer, im *image.Image, opts ...disasm.Option) error {
	var sink disasm.JSONSink
	runErr := disasm.New(im.Bytes, opts...).Run(&sink)

	output := JSONOutput{
		File:         pathpkg.Base(im.Path),
		Digest:       im.Digest,
		Size:         im.Size(),
		Instructions: sink.Insts,
	}
	if output.Instructions == nil {
		output.Instructions = []disasm.JSONInst{}
	}
	if runErr != nil {
		output.Error = runErr.Error()
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(jsonData)); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("decode %s: %w", output.File, runErr)
	}
	return nil
}

type usage struct {
	name  string
	count int
}

// sortedUsage orders counts by count, then name.
func sortedUsage(counts map[string]int) []usage {
	out := make([]usage, 0, len(counts))
	for name, n := range counts {
		out = append(out, usage{name, n})
	}
	slices.SortFunc(out, func(a, b usage) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// registerUses counts every register an instruction reads or writes,
// including address components.
func registerUses(stream disasm.Stream) map[string]int {
	counts := make(map[string]int)
	add := func(op isa.Operand) {
		switch op := op.(type) {
		case isa.Register:
			counts[op.String()]++
		case isa.Memory:
			for _, r := range op.Components[:op.Components.Len()] {
				counts[r.String()]++
			}
		}
	}
	for _, inst := range stream {
		add(inst.Instruction.Dst)
		add(inst.Instruction.Src)
	}
	return counts
}

// summaryMarkdown reports what a decode found.
func summaryMarkdown(im *image.Image, stream disasm.Stream, decodeErr error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# sim8086\n\n```\n; %s", pathpkg.Base(im.Path))
	if im.Kind != image.KindRaw {
		fmt.Fprintf(&b, " (%s)", im.Kind)
	}
	fmt.Fprintf(&b, "\n; %s\n; %d bytes, %d instructions\n```\n", im.Digest, im.Size(), len(stream))

	forms := make(map[string]int)
	for _, inst := range stream {
		forms[inst.Instruction.Form.String()]++
	}
	if len(forms) > 0 {
		b.WriteString("\n## Forms\n\n| Form | Count |\n| --- | ---: |\n")
		for _, u := range sortedUsage(forms) {
			fmt.Fprintf(&b, "| %s | %d |\n", u.name, u.count)
		}
	}

	if regs := registerUses(stream); len(regs) > 0 {
		b.WriteString("\n## Registers\n\n| Register | Uses |\n| --- | ---: |\n")
		for _, u := range sortedUsage(regs) {
			fmt.Fprintf(&b, "| `%s` | %d |\n", u.name, u.count)
		}
	}

	if decodeErr != nil {
		fmt.Fprintf(&b, "\n## Error\n\n`%s`\n", decodeErr)
	}
	return b.String()
}

// writeSummary prints the summary as markdown, rendered with glamour when
// width is positive.
func writeSummary(w io.Writer, im *image.Image, width int, opts ...disasm.Option) error {
	stream, decodeErr := disasm.Disassemble(im.Bytes, opts...)

	md := summaryMarkdown(im, stream, decodeErr)
	if width > 0 {
		md = styles.Render(md, width-2)
	}
	if _, err := io.WriteString(w, md); err != nil {
		return err
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w", pathpkg.Base(im.Path), decodeErr)
	}
	return nil
}

// writeDump pretty prints each decoded instruction.
func writeDump(w io.Writer, im *image.Image, color bool, opts ...disasm.Option) error {
	printer := pp.New()
	printer.SetColoringEnabled(color)

	err := disasm.New(im.Bytes, opts...).Run(disasm.SinkFunc(func(inst disasm.Inst) error {
		if _, err := fmt.Fprintf(w, "; %04x: %s\n", inst.Offset, inst.Text()); err != nil {
			return err
		}
		_, err := printer.Fprintln(w, inst.Instruction)
		return err
	}))
	if err != nil {
		return fmt.Errorf("decode %s: %w", pathpkg.Base(im.Path), err)
	}
	return nil
}
