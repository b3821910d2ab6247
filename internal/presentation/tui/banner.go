package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Profile picks the color profile for w: none unless w is a terminal.
func Profile(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// PrintBanner writes the ASCII art banner.
func PrintBanner(w io.Writer, version string) {
	p := Profile(w)
	lines := []struct {
		text  string
		color string
	}{
		{`  __  __           _       _            `, "#fb923c"},
		{` |  \/  | ___   __| |_   _| | __ _ _ __ `, "#f97316"},
		{` | |\/| |/ _ \ / _' | | | | |/ _' | '__|`, "#ea580c"},
		{` | |  | | (_) | (_| | |_| | | (_| | |   `, "#f43f5e"},
		{` |_|  |_|\___/ \__,_|\__,_|_|\__,_|_|   `, "#e11d48"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("   modular synth patch engine v"+version).Faint())
	fmt.Fprintln(w)
}
