package agamdocs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aruvili/agamdocs/loader"
	"github.com/aruvili/agamdocs/markdown"
	"github.com/aruvili/agamdocs/resolve"
	"github.com/aruvili/agamdocs/views"
)

func handleHomeRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/docs/introduction/")
}

func (a *App) handleDocsIndex(c echo.Context) error {
	return a.renderDoc(c, "")
}

func (a *App) handleDoc(c echo.Context) error {
	return a.renderDoc(c, c.Param("slug"))
}

// renderDoc loads the resource behind slug and renders it. Unknown slugs
// show the default page. A failed retrieval renders the fallback text with
// status 502.
func (a *App) renderDoc(c echo.Context, slug string) error {
	ctx := c.Request().Context()
	st := a.Loader.LoadSync(ctx, slug)
	if ctx.Err() != nil {
		// The client went away before the fetch finished.
		return c.NoContent(http.StatusRequestTimeout)
	}
	code := http.StatusOK
	if st.Status == loader.Failed {
		code = http.StatusBadGateway
	}

	page := a.docPage(slug, st)
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "content" {
		return RenderStatus(c, code, a.Views.DocPartial(page))
	}
	return RenderStatus(c, code, a.Views.DocPage(page))
}

func (a *App) docPage(slug string, st loader.State) views.DocPage {
	active := resolve.Normalize(slug)
	section, leaf, ok := a.Nav.Locate(active)
	if !ok && active == "" {
		active = a.defaultActive()
		section, leaf, _ = a.Nav.Locate(active)
	}

	title := leaf.Title
	if title == "" && st.Status == loader.Ready {
		title = markdown.Title(st.Text)
	}
	if title == "" {
		title = a.Config.Name
	}

	canonical := BuildURL(a.Config.URL, "docs")
	if active != "" {
		canonical = BuildURL(a.Config.URL, "docs", active)
	}

	return views.DocPage{
		Site:    a.site(),
		Meta:    views.PageMeta{Title: title, URL: canonical},
		Sidebar: a.Nav.Sidebar(),
		Active:  active,
		Section: section.Title,
		State:   st,
	}
}

// defaultActive returns the first sidebar slug that resolves to the default
// resource, so the index page highlights the introduction.
func (a *App) defaultActive() string {
	for _, leaf := range a.Nav.Leaves() {
		slug := resolve.Normalize(leaf.Href)
		if id, ok := a.Resolver.Lookup(slug); ok && id == a.Resolver.Fallback() {
			return slug
		}
	}
	return ""
}

// handleResource serves a stored markdown document verbatim. Only paths
// ending in .md get here; the trailing-slash middleware redirects the rest
// to the page route.
func (a *App) handleResource(c echo.Context) error {
	id := c.Param("slug")
	if !resolve.ValidResourceID(id) {
		return echo.ErrNotFound
	}
	doc, err := a.Store.GetDocContext(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc.Content))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", strings.TrimSuffix(BuildURL(a.Config.URL, "sitemap.xml"), "/"))
	return c.String(http.StatusOK, b.String())
}

func (a *App) handleHealth(c echo.Context) error {
	ids, err := a.Store.ResourceIDs()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "docs": len(ids)})
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		HTMX:        a.htmx,
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
