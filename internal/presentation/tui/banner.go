package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the rover banner using the terminal's color profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  ____                          `, "#34d399"},
		{` |  _ \ _____   _____ _ __      `, "#2dd4bf"},
		{` | |_) / _ \ \ / / _ \ '__|     `, "#22d3ee"},
		{` |  _ < (_) \ V /  __/ |        `, "#38bdf8"},
		{` |_| \_\___/ \_/ \___|_|        `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
