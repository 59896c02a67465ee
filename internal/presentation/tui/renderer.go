package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns a bot message into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour markdown renderer that adapts to the
// terminal's light or dark background.
func NewRenderer(width int) (Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// PlainRenderer returns text unchanged apart from a trailing newline.
func PlainRenderer() Renderer {
	return func(markdown string) (string, error) {
		return strings.TrimRight(markdown, "\n") + "\n", nil
	}
}
