package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// Localizer supplies translated labels and formatted prices.
type Localizer interface {
	Lang() string
	T(key string) string
	Price(amount decimal.Decimal) string
}

// Env carries what every component needs besides its view model.
type Env struct {
	Loc Localizer
	// Media maps a content media URL to the URL the page should reference.
	// Nil leaves URLs unchanged.
	Media func(string) string
}

func (e Env) media(raw string) string {
	if raw == "" || e.Media == nil {
		return raw
	}
	return e.Media(raw)
}

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
}

func (h *htmlWriter) close(tag string) {
	h.raw("</" + tag + ">")
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// element writes <tag attrs...>text</tag>.
func (h *htmlWriter) element(tag, text string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(text)
	h.close(tag)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(templ.ClearChildren(ctx), h.w)
}

func safeURL(raw string) string {
	return string(templ.URL(raw))
}

// backgroundStyle returns an inline background-image declaration, or "" for
// an empty URL.
func backgroundStyle(raw string) string {
	if raw == "" {
		return ""
	}
	escaped := strings.NewReplacer(`"`, `%22`, `\`, `%5C`).Replace(safeURL(raw))
	return `background-image: url("` + escaped + `")`
}
