package modules

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/app-estudos/estudos/pkg/view"
)

var (
	// Raw HTML passes through goldmark; the policy decides what survives.
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy = bluemonday.UGCPolicy()
)

// Document is a rendered markdown module.
//
// A module may start with a "title: ..." line followed by a blank line;
// the rest is the markdown body.
type Document struct {
	Key   string
	Title string
	HTML  string
}

// ParseDocument renders a markdown module.
func ParseDocument(key string, data []byte) (*Document, error) {
	title, body := splitFrontMatter(data)

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("modules: render %s: %w", key, err)
	}
	return &Document{
		Key:   key,
		Title: title,
		HTML:  policy.Sanitize(buf.String()),
	}, nil
}

func splitFrontMatter(data []byte) (string, []byte) {
	first, rest, _ := bytes.Cut(data, []byte("\n"))
	value, ok := strings.CutPrefix(strings.TrimSpace(string(first)), "title:")
	if !ok {
		return "", data
	}
	return strings.TrimSpace(value), bytes.TrimLeft(rest, "\r\n")
}

// Render returns the document as an article.
func (d *Document) Render() *view.Node {
	var heading *view.Node
	if d.Title != "" {
		heading = view.El("h1", d.Title)
	}
	return view.El("article", view.Class("module"), view.A("data-module", d.Key),
		heading,
		view.Raw(d.HTML),
	)
}

// Load fetches and parses a module.
func Load(ctx context.Context, src Source, key string) (*Document, error) {
	data, err := src.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	return ParseDocument(key, data)
}
