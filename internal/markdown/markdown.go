// Package markdown renders blog Markdown to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		// raw html passes the renderer, the policy below decides what survives
		goldmark.WithRendererOptions(
			htmlrenderer.WithUnsafe(),
		),
	)

	policy = bluemonday.UGCPolicy()
)

// Render converts Markdown to HTML safe for embedding in a page.
func Render(src string) (string, error) {
	var buf bytes.Buffer

	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return policy.Sanitize(buf.String()), nil
}
