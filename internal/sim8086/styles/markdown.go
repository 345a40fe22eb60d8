// Package styles renders markdown reports for the terminal.
package styles

import (
	"github.com/charmbracelet/glamour"
)

// GetMarkdownRenderer returns a renderer using ListingStyle. Width 0
// disables wrapping.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStyles(ListingStyle()),
		glamour.WithWordWrap(width),
	)
	return r
}

// Render renders markdown, falling back to the source text if glamour
// fails.
func Render(markdown string, width int) string {
	r := GetMarkdownRenderer(width)
	if r == nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
