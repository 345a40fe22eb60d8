package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// Dark is the listing colour scheme, registered as "sim8086-dark".
var Dark = styles.Register(chroma.MustNewStyle("sim8086-dark", chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#4F4F4F", // offsets and raw bytes
	chroma.CommentPreproc: "#EBC2ED", // bits 16

	chroma.Keyword:       "#FFFFFF", // mnemonics
	chroma.KeywordPseudo: "#EBC2ED",
	chroma.KeywordType:   "#EACD53", // BYTE / WORD
	chroma.Name:          "#7C9C9D", // registers
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameVariable:  "#7C9C9D",
	chroma.NameFunction:  "#FFFFFF",

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",
}))
