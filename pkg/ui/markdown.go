package ui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown with glamour, falling back to the raw
// text whenever glamour cannot be configured or fails.
type MarkdownRenderer struct {
	Style string // "auto", "dark", "light", "notty" or a path to a custom style
	Width int    // word wrap width, 0 leaves glamour's default
}

// NewMarkdownRenderer creates a renderer with auto-detected style
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Style: "auto"}
}

// Render converts markdown to styled terminal output
func (r *MarkdownRenderer) Render(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
