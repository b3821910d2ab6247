package tui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// PrintCables writes the patch as a table, with each cable's color shown as a
// swatch when w supports color.
func PrintCables(w io.Writer, cables []domain.CableView) error {
	if len(cables) == 0 {
		_, err := fmt.Fprintln(w, "no cables patched")
		return err
	}

	p := Profile(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSINK\tCOLOR")
	for _, c := range cables {
		swatch := p.String("━━").Foreground(p.Color(c.Color))
		fmt.Fprintf(tw, "%s\t%s\t%s %s\n", c.Source, c.Sink, swatch, c.Color)
	}
	return tw.Flush()
}
