package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaroNakasendo/modularsynth/internal/presentation/tui"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

func TestPrintCables(t *testing.T) {
	var buf bytes.Buffer
	err := tui.PrintCables(&buf, []domain.CableView{
		{Source: "VCO-1.OUT", Sink: "VCF.IN", Color: "#d9408c"},
		{Source: "LFO.OUT", Sink: "VCF.CV", Color: "#40d98c"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "VCO-1.OUT")
	assert.Contains(t, out, "#40d98c")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestPrintCables_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.PrintCables(&buf, nil))
	assert.Equal(t, "no cables patched\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.False(t, tui.IsTerminal(&buf))
}

func TestManual(t *testing.T) {
	render, err := tui.NewRenderer(false)
	require.NoError(t, err)

	out, err := render(tui.Manual())
	require.NoError(t, err)
	assert.Contains(t, out, "Patching Guide")
	assert.Contains(t, out, "LFO.OUT")
}
