// Package views holds the HTML templates for the documentation site.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/aruvili/agamdocs/loader"
	"github.com/aruvili/agamdocs/markdown"
	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

// LoadingText is shown while a document is pending.
const LoadingText = "Loading..."

// Layout wraps body in the shared page chrome.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if desc != "" {
			h.rawf(`<meta name="description" content="%s">`, templ.EscapeString(desc))
		}
		if meta.URL != "" {
			h.rawf(`<link rel="canonical" href="%s">`, templ.EscapeString(meta.URL))
		}
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		h.raw(`<link rel="stylesheet" href="/public/docs.css">`)
		if site.HTMX {
			h.raw(`<script src="/public/htmx.min.js" defer></script>`)
		}
		h.raw(`</head><body><header class="site-header"><a class="site-name" href="/docs/">`)
		h.text(site.Name)
		h.raw(`</a></header>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

// Sidebar renders the two-level navigation with the leaf matching active
// highlighted. oob marks it for an htmx out-of-band swap.
func Sidebar(items []nav.Item, active string, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav id="sidebar" class="sidebar" aria-label="Documentation"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`>`)
		for _, section := range items {
			h.raw(`<section class="sidebar-section"><h2 class="sidebar-heading">`)
			h.text(section.Title)
			h.raw(`</h2><ul>`)
			for _, leaf := range section.Items {
				isActive := resolve.Normalize(leaf.Href) == active
				href := PageHref(leaf.Href)
				h.rawf(`<li><a class="%s" href="%s" hx-get="%s?partial=content" hx-target="#content" hx-push-url="%s"`,
					LinkClass(isActive), templ.EscapeString(href), templ.EscapeString(href), templ.EscapeString(href))
				if isActive {
					h.raw(` aria-current="page"`)
				}
				h.raw(`>`)
				h.text(leaf.Title)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></section>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// DocContent renders the content area for a loader state. Pending shows the
// loading indicator; Ready and Failed both render their text as markdown.
func DocContent(st loader.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<main id="content" class="doc-content" data-status="%s"`, st.Status)
		if st.ResourceID != "" {
			h.rawf(` data-resource="%s"`, templ.EscapeString(st.ResourceID))
		}
		if st.Status == loader.Pending {
			h.raw(` aria-busy="true"><p class="doc-loading">`)
			h.text(LoadingText)
			h.raw(`</p></main>`)
			return h.err
		}
		h.raw(`><article class="doc">`)
		if h.err != nil {
			return h.err
		}
		if err := markdown.Markdown(st.Text).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</article></main>`)
		return h.err
	})
}

// DocPageView renders a full documentation page.
func DocPageView(p DocPage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="doc-layout">`)
		if h.err != nil {
			return h.err
		}
		if err := Sidebar(p.Sidebar, p.Active, false).Render(ctx, w); err != nil {
			return err
		}
		if err := DocContent(p.State).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div>`)
		return h.err
	})
	return Layout(p.Site, p.Meta, body)
}

// DocPartial renders the content area plus an out-of-band sidebar so the
// active link follows htmx navigation.
func DocPartial(p DocPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := DocContent(p.State).Render(ctx, w); err != nil {
			return err
		}
		return Sidebar(p.Sidebar, p.Active, true).Render(ctx, w)
	})
}

func message(site Site, title, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="message"><h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(text)
		h.raw(`</p><p><a href="/docs/">Back to the documentation</a></p></main>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: title}, body)
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return message(site, "Page not found", "The page you asked for does not exist.")
}

// ServerError renders the 5xx page.
func ServerError(site Site) templ.Component {
	return message(site, "Something went wrong", "Please try again in a moment.")
}

// AdminLogin renders the password form.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="admin"><h1>Admin</h1>`)
		if showError {
			h.raw(`<p class="admin-error" role="alert">Wrong password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/">`)
		h.rawf(`<input type="hidden" name="_csrf" value="%s">`, templ.EscapeString(csrfToken))
		h.raw(`<label>Password <input type="password" name="password" autofocus required></label>`)
		h.raw(`<button type="submit">Sign in</button></form></main>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Admin"}, body)
}

// AdminDashboard lists stored documents and consistency problems.
func AdminDashboard(site Site, data AdminData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main class="admin"><h1>Documents</h1>`)
		if data.Message != "" {
			h.raw(`<p class="admin-message" role="status">`)
			h.text(data.Message)
			h.raw(`</p>`)
		}
		h.raw(`<form method="post" action="/admin/reimport/">`)
		h.rawf(`<input type="hidden" name="_csrf" value="%s">`, templ.EscapeString(data.CSRFToken))
		h.raw(`<button type="submit">Re-import docs</button></form>`)
		h.raw(`<form method="post" action="/admin/logout/">`)
		h.rawf(`<input type="hidden" name="_csrf" value="%s">`, templ.EscapeString(data.CSRFToken))
		h.raw(`<button type="submit">Sign out</button></form>`)

		h.raw(`<table class="admin-docs"><thead><tr><th>Resource</th><th>Title</th><th>Updated</th><th>Routed</th></tr></thead><tbody>`)
		for _, d := range data.Docs {
			h.raw(`<tr><td><a href="/docs/`)
			h.text(d.ResourceID)
			h.raw(`">`)
			h.text(d.ResourceID)
			h.raw(`</a></td><td>`)
			h.text(d.Title)
			h.raw(`</td><td>`)
			if !d.UpdatedAt.IsZero() {
				h.text(d.UpdatedAt.Format("2006-01-02 15:04"))
			}
			h.raw(`</td><td>`)
			if d.Routed {
				h.raw(`yes`)
			} else {
				h.raw(`no`)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<h2>Problems</h2>`)
		if len(data.Problems) == 0 {
			h.raw(`<p class="admin-ok">No problems found.</p>`)
		} else {
			h.raw(`<ul class="admin-problems">`)
			for _, p := range data.Problems {
				h.raw(`<li>`)
				h.text(p)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</main>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Admin"}, body)
}
