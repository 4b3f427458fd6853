package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// Output that is not a terminal gets the plain "notty" style.
func NewRenderer(out *os.File) func(string) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if term.IsTerminal(int(out.Fd())) {
		style = glamour.WithAutoStyle() // Automatically detect light/dark background
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return r.Render
}
