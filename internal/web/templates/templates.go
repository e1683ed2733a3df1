// Package templates renders the small HTML fragments the server returns
// to browsers: the service index and HTMX error alerts.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Endpoint is one row of the service index.
type Endpoint struct {
	Name string
	Path string
}

// Index renders the service landing page.
func Index(title string, endpoints []Endpoint) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><title>%s</title></head><body><main><h1>%s</h1><ul>`,
			templ.EscapeString(title), templ.EscapeString(title)); err != nil {
			return err
		}
		for _, e := range endpoints {
			if _, err := fmt.Fprintf(w, `<li><strong>%s</strong> <code>%s</code></li>`,
				templ.EscapeString(e.Name), templ.EscapeString(e.Path)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></main></body></html>`)
		return err
	})
}

// ErrorAlert renders an error fragment for HTMX swaps.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="alert alert-error" role="alert"><p class="alert-message">%s</p>`,
			templ.EscapeString(message)); err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<p class="alert-code">Código: %s</p></div>`, templ.EscapeString(code))
		return err
	})
}
