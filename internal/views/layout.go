package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type navLink struct {
	href, label string
}

var nav = []navLink{
	{"/", "Buddies"},
	{"/jack", "Jack's Stats"},
	{"/live-game", "Live Game"},
}

// page wraps body into the shared document with the navigation bar.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title + " | JackStatz")
		h.raw(`</title>`)
		h.raw(`<style>body{font-family:system-ui,sans-serif;margin:0 auto;max-width:64rem;padding:1rem}` +
			`nav a{margin-right:1rem}table{border-collapse:collapse;width:100%}` +
			`td,th{border:1px solid #ccc;padding:.3rem;text-align:center}.error{color:#b00}` +
			`.readonly{background:#fff4d6;padding:.5rem}</style>`)
		h.raw(`</head><body><nav>`)
		for _, l := range nav {
			h.raw(`<a href="`)
			h.text(l.href)
			h.raw(`">`)
			h.text(l.label)
			h.raw(`</a>`)
		}
		h.raw(`</nav><main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func errorBanner(h *html, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<p class="error">`)
	h.text(msg)
	h.raw(`</p>`)
}

func readOnlyBanner(h *html, readOnly bool) {
	if readOnly {
		h.raw(`<p class="readonly">The datastore is unavailable, showing default data. Changes won't be saved.</p>`)
	}
}
