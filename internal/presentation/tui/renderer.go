package tui

import (
	_ "embed"

	"github.com/charmbracelet/glamour"
)

//go:embed manual.md
var manual string

// Manual returns the raw markdown of the patching guide.
func Manual() string {
	return manual
}

// NewRenderer returns a function that renders markdown using glamour.
// Styled output is only used when styled is true; otherwise plain notty text
// is produced so the result is safe to pipe.
func NewRenderer(styled bool) (func(string) (string, error), error) {
	opt := glamour.WithStandardStyle("notty")
	if styled {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
