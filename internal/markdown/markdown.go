// Package markdown renders item source text to the HTML stored on posts
// and pages.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

// Render converts markdown source to HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderItemText renders revision source text. A "markdown:" prefix marks
// markdown source; an "html:" prefix (and unprefixed text, for older
// documents) passes through verbatim.
func RenderItemText(text string) (string, error) {
	switch {
	case strings.HasPrefix(text, "markdown:"):
		return Render(strings.TrimPrefix(text, "markdown:"))
	case strings.HasPrefix(text, "html:"):
		return strings.TrimPrefix(text, "html:"), nil
	default:
		return text, nil
	}
}
