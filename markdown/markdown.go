// Package markdown provides a folio filter that converts Markdown to HTML
// using goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"impractical.co/folio"
)

// Name is the name the filter is conventionally registered under.
const Name = "markdown"

// Filter returns a filter that renders its input as Markdown. Raw HTML in
// the input is passed through, so the output of a forEach or partial can be
// piped into it. Null renders as an empty string.
//
// opts are passed to goldmark.New after the defaults, so they can add
// extensions or override the renderer options.
func Filter(opts ...goldmark.Option) folio.Filter {
	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithRendererOptions(html.WithUnsafe()),
	}, opts...)...)
	return folio.Filter{
		Func: func(_ *folio.Call, in folio.Value, _ []folio.Value) (folio.Value, error) {
			if in.IsNull() {
				return folio.FromString(""), nil
			}
			src, ok := in.AsString()
			if !ok {
				return folio.Null, fmt.Errorf("%w: expected a string, got %s", folio.ErrTypeMismatch, in.Kind())
			}
			var buf bytes.Buffer
			if err := md.Convert([]byte(src), &buf); err != nil {
				return folio.Null, fmt.Errorf("error converting markdown: %w", err)
			}
			return folio.FromString(buf.String()), nil
		},
	}
}

// Option returns a folio.Option registering the filter under Name.
func Option(opts ...goldmark.Option) folio.Option {
	return folio.WithFilter(Name, Filter(opts...))
}
