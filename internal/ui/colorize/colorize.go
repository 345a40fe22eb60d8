// Package colorize highlights 8086 listings for the terminal.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether SIM8086_NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("SIM8086_NO_COLOR") != ""
}

// getLexer returns the nasm lexer, or another x86 assembly lexer if the
// chroma build lacks it.
func getLexer() chroma.Lexer {
	for _, name := range []string{"nasm", "gas"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getStyle() *chroma.Style {
	for _, name := range []string{"sim8086-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Listing highlights a whole listing. On failure the input is returned
// unchanged together with the error.
func Listing(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Line highlights a single listing line. Errors fall back to the plain line.
func Line(line string) string {
	out, err := Listing(line)
	if err != nil {
		return line
	}
	// lexers with EnsureNL add a newline, possibly inside an escape span
	if !strings.HasSuffix(line, "\n") {
		if i := strings.LastIndex(out, "\n"); i >= 0 {
			out = out[:i] + out[i+1:]
		}
	}
	return out
}

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
