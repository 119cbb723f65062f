package views

import (
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/aruvili/agamdocs/resolve"
)

// PageHref turns a sidebar href into the page URL ("/docs/loops/").
func PageHref(href string) string {
	slug := resolve.Normalize(href)
	if slug == "" {
		return "/docs/"
	}
	return "/docs/" + url.PathEscape(slug) + "/"
}

// LinkClass returns CSS classes for a sidebar link, with active variant.
func LinkClass(active bool) string {
	if active {
		return "sidebar-link sidebar-link-active"
	}
	return "sidebar-link"
}

// htmlWriter accumulates the first write error so templates read top-down.
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

func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}
