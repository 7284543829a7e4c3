package introspect

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownInstance is built once; goldmark.Markdown is safe for concurrent Convert calls.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownInstance
}

// ToHTML converts a documentation page to an HTML fragment. Raw HTML in the
// source is not passed through.
func ToHTML(page string) (string, error) {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(page), &buf); err != nil {
		return "", fmt.Errorf("%s - failed to render markdown: %w", logPrefix, err)
	}
	return buf.String(), nil
}

// RenderHTML renders the documentation page of key as HTML.
func (r *Renderer) RenderHTML(key string) (string, error) {
	page, err := r.Render(key)
	if err != nil {
		return "", err
	}
	return ToHTML(page)
}
