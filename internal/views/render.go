// HTML views of JackStatz, written as templ components.

package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// Render writes component as the whole response.
func Render(gctx *gin.Context, status int, component templ.Component) {
	gctx.Render(status, templRender{ctx: gctx.Request.Context(), component: component})
}

// templRender lets gin drive a templ component like any of its own renderers.
type templRender struct {
	ctx       context.Context
	component templ.Component
}

func (r templRender) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return r.component.Render(r.ctx, w)
}

func (r templRender) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// html collects the first write error so components can be written top to bottom.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) rawf(format string, args ...interface{}) {
	h.raw(fmt.Sprintf(format, args...))
}

// Nests a component at the current position.
func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}
