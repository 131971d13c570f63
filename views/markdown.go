package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/nordvik/folio/hydrate"
	"github.com/nordvik/folio/markdown"
)

var (
	pipeline = markdown.New()
	hydrator = hydrate.New()
)

// Markdown returns a templ.Component that runs content through the full
// canonical pipeline: Markdown to HTML, then placeholder hydration.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := pipeline.Render(content)
		if err != nil {
			return err
		}
		out, _, err = hydrator.Apply(out)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Raw returns a templ.Component that writes pre-rendered HTML as-is.
// Handlers pass hydrated post HTML through this to avoid re-rendering.
func Raw(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}
