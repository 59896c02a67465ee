package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_IncludesVersion(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 7)
}

func TestRenderers(t *testing.T) {
	plain, err := tui.PlainRenderer()("**bold**\n\n")
	require.NoError(t, err)
	assert.Equal(t, "**bold**\n", plain)

	render, err := tui.NewRenderer(40)
	require.NoError(t, err)
	out, err := render("**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "bold")
}
