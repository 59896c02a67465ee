package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Green to teal, top to bottom.
	lines := []struct{ text, color string }{
		{"                 _               ", "#4ade80"},
		{"   __ _ _ __ ___| |__   ___  _ __", "#34d399"},
		{"  / _` | '__/ _ \\ '_ \\ / _ \\| '__|", "#2dd4bf"},
		{" | (_| | | |  __/ |_) | (_) | |   ", "#22d3ee"},
		{"  \\__,_|_|  \\___|_.__/ \\___/|_|   ", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  "+version).Faint())
	fmt.Fprintln(w)
}
