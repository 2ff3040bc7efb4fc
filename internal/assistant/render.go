package assistant

import (
	"bytes"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderHTML renders a reply as markdown. Raw HTML in the reply is dropped
// and fenced blocks become <pre><code> elements.
func RenderHTML(text string) string {
	if text == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})
	out := markdown.ToHTML([]byte(text), p, renderer)
	return string(bytes.TrimSpace(out))
}
