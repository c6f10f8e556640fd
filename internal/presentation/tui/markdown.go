package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewMarkdown returns a function that renders tooltip markdown with glamour.
// wordWrap bounds the line width; zero keeps glamour's default.
func NewMarkdown(style string, wordWrap int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}, nil
}
