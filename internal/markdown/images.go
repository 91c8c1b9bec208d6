package markdown

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	htmlSrc = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']?([^"'\s>]+)`)

	// bare image urls and paths, e.g. a link target or a url pasted as text
	imageURL = regexp.MustCompile(`(?i)(?:https?://|/)[^\s"'()<>\[\]]+\.(?:jpe?g|png|gif|webp|svg|bmp|tiff?)\b`)
)

// ImageRefs returns every image the Markdown source points to: image destinations,
// src attributes of raw html and bare image urls. Each reference is listed once.
func ImageRefs(src string) []string {
	if src == "" {
		return nil
	}

	source := []byte(src)
	seen := make(map[string]bool)

	var refs []string

	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	doc := md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Image:
			add(string(node.Destination))
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				for _, m := range htmlSrc.FindAllSubmatch(seg.Value(source), -1) {
					add(string(m[1]))
				}
			}
		case *ast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				for _, m := range htmlSrc.FindAllSubmatch(seg.Value(source), -1) {
					add(string(m[1]))
				}
			}
		}

		return ast.WalkContinue, nil
	})

	for _, m := range imageURL.FindAllString(src, -1) {
		add(m)
	}

	return refs
}
