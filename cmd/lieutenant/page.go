package main

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/pthm/lieutenant"
	"github.com/pthm/lieutenant/lib/config"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// indexPage lists every configured component as an htmx placeholder.
func indexPage(cfg *config.Config, reg *lieutenant.Registry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := html.EscapeString(cfg.Server.Title)
		_, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`+title+
			`</title><script src="`+htmxScript+`"></script></head><body><main>`)
		if err != nil {
			return err
		}

		for _, comp := range cfg.Components {
			if err := reg.Element(comp.Element, comp.Attributes(), nil).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, `</main></body></html>`)
		return err
	})
}
