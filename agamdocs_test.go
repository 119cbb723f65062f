package agamdocs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruvili/agamdocs/loader"
)

var testDocs = map[string]string{
	"01_introduction.md": "# Introduction\n\nWelcome to Agam.\n",
	"04_variables.md":    "# Variables\n\nUse `மாறி` to declare one.\n",
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	if cfg.URL == "" {
		cfg.URL = "https://docs.example.org"
	}
	cfg.DatabasePath = filepath.Join(t.TempDir(), "docs.db")
	if cfg.DocsDir == "" {
		cfg.DocsDir = writeDocs(t, testDocs)
	}
	a := New(cfg, opts...)
	a.Echo.Logger.SetOutput(io.Discard)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string) *httptest.ResponseRecorder {
	return serve(a, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestHomeRedirectsToIntroduction(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/docs/introduction/", rec.Header().Get(echo.HeaderLocation))
}

func TestDocPageRendersSidebarAndContent(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/variables/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	body := rec.Body.String()
	assert.Contains(t, body, `<h1 id="variables">Variables</h1>`)
	assert.Contains(t, body, `data-status="ready" data-resource="04_variables.md"`)
	assert.Contains(t, body, `<a class="sidebar-link sidebar-link-active" href="/docs/variables/"`)
	assert.Contains(t, body, `<title>Variables | Agam</title>`)
	assert.Contains(t, body, `<link rel="canonical" href="https://docs.example.org/docs/variables/">`)
	assert.Equal(t, 1, strings.Count(body, `aria-current="page"`))
	for _, section := range []string{"Getting Started", "Basics", "Control Flow"} {
		assert.Contains(t, body, section)
	}
}

func TestDocPageWithoutTrailingSlashRedirects(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/variables")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/docs/variables/", rec.Header().Get(echo.HeaderLocation))
}

func TestDocsIndexShowsIntroduction(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-resource="01_introduction.md"`)
	assert.Contains(t, body, `<a class="sidebar-link sidebar-link-active" href="/docs/introduction/"`)
}

func TestUnknownSlugShowsIntroduction(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/closures/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-resource="01_introduction.md"`)
	assert.Contains(t, body, "Welcome to Agam.")
	assert.NotContains(t, body, `aria-current="page"`)
}

func TestMissingResourceRendersPlaceholder(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/functions/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-status="failed" data-resource="09_functions.md"`)
	assert.Contains(t, body, "Error loading documentation")
	assert.Contains(t, body, `href="/docs/variables/"`, "navigation stays usable")
}

func TestFailingOriginRendersPlaceholder(t *testing.T) {
	failing := loader.FetcherFunc(func(ctx context.Context, id string) (string, error) {
		return "", errors.New("origin unreachable")
	})
	a := newTestApp(t, SiteConfig{}, WithFetcher(failing))
	rec := get(a, "/docs/variables/")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading documentation")
}

func TestContentOriginOverHTTP(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/docs/08_loops.md" {
			_, _ = io.WriteString(w, "# Loops from origin\n")
			return
		}
		http.NotFound(w, r)
	}))
	defer origin.Close()

	a := newTestApp(t, SiteConfig{ContentOrigin: origin.URL})
	rec := get(a, "/docs/loops/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loops from origin")

	rec = get(a, "/docs/variables/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestContentPartial(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	req := httptest.NewRequest(http.MethodGet, "/docs/variables/?partial=content", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(a, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<main id="content"`), body)
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")

	// Without the htmx header the full page is served.
	rec = get(a, "/docs/variables/?partial=content")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestRawResource(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/docs/04_variables.md")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, testDocs["04_variables.md"], rec.Body.String())
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestRawResourceNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, target := range []string{"/docs/09_functions.md", "/docs/Variables.md", "/docs/4_x.md"} {
		rec := get(a, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Page not found", target)
	}
}

func TestSitemapListsLeaves(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/sitemap.xml")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://docs.example.org/docs/introduction/</loc>")
	assert.Contains(t, body, "<loc>https://docs.example.org/docs/file-io/</loc>")
	assert.Equal(t, len(a.Nav.Leaves()), strings.Count(body, "<url>"))
	assert.Less(t, strings.Index(body, "/docs/introduction/"), strings.Index(body, "/docs/variables/"))
}

func TestRobots(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/robots.txt")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /admin/")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://docs.example.org/sitemap.xml")
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","docs":2}`, rec.Body.String())
}

func TestMetricsCountLoads(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	get(a, "/docs/variables/")
	get(a, "/docs/functions/")
	get(a, "/docs/closures/")

	rec := get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `agamdocs_loads_total{outcome="ready"} 2`)
	assert.Contains(t, body, `agamdocs_loads_total{outcome="failed"} 1`)
	assert.Contains(t, body, "agamdocs_fallback_resolutions_total 1")
}

func TestMetricsDisabled(t *testing.T) {
	a := newTestApp(t, SiteConfig{DisableMetrics: true})
	assert.Equal(t, http.StatusNotFound, get(a, "/metrics").Code)
}

func TestEmbeddedStylesheet(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/public/docs.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".sidebar-link-active")
}

func TestHTMXScriptFollowsStaticDir(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, WithStaticDir(t.TempDir()))
	assert.NotContains(t, get(a, "/docs/variables/").Body.String(), "htmx.min.js")

	static := writeDocs(t, map[string]string{HTMXFile: "/* htmx */"})
	a = newTestApp(t, SiteConfig{}, WithStaticDir(static))
	assert.Contains(t, get(a, "/docs/variables/").Body.String(), `<script src="/public/htmx.min.js" defer></script>`)
	rec := get(a, "/public/htmx.min.js")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/healthz")
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestInitRequiresSessionSecretWithAdmin(t *testing.T) {
	a := New(SiteConfig{
		AdminPassword: "secret",
		DatabasePath:  filepath.Join(t.TempDir(), "docs.db"),
	})
	assert.Error(t, a.Init())
}

func TestInitWithManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "agamdocs.yaml")
	require.NoError(t, writeFile(manifest, testManifest))

	a := newTestApp(t, SiteConfig{ManifestPath: manifest})
	assert.Len(t, a.Nav.Leaves(), 2)
	rec := get(a, "/docs/variables/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Control Flow")
}

func TestAdminDisabledByDefault(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	assert.Equal(t, http.StatusNotFound, get(a, "/admin/").Code)
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func login(t *testing.T, a *App, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	rec := get(a, "/admin/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)
	csrf := findCookie(rec.Result().Cookies(), "_csrf")
	require.NotNil(t, csrf)

	form := url.Values{"password": {password}, "_csrf": {csrf.Value}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Cookie", cookieHeader([]*http.Cookie{csrf}))
	return serve(a, req), csrf
}

func TestAdminLoginAndDashboard(t *testing.T) {
	a := newTestApp(t, SiteConfig{AdminPassword: "hunter2", SessionSecret: "0123456789abcdef0123456789abcdef"})

	rec, csrf := login(t, a, "hunter2")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	sess := findCookie(rec.Result().Cookies(), sessionName)
	require.NotNil(t, sess)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Cookie", cookieHeader([]*http.Cookie{csrf, sess}))
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "04_variables.md")
	assert.Contains(t, body, "missing-resource: 09_functions.md")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	form := url.Values{"_csrf": {csrf.Value}}
	req = httptest.NewRequest(http.MethodPost, "/admin/reimport/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Cookie", cookieHeader([]*http.Cookie{csrf, sess}))
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Imported 2 documents.")
}

func TestAdminWrongPassword(t *testing.T) {
	a := newTestApp(t, SiteConfig{AdminPassword: "hunter2", SessionSecret: "0123456789abcdef0123456789abcdef"})

	rec, _ := login(t, a, "nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password.")
	assert.Nil(t, findCookie(rec.Result().Cookies(), sessionName))
}

func TestAdminReimportRequiresSession(t *testing.T) {
	a := newTestApp(t, SiteConfig{AdminPassword: "hunter2", SessionSecret: "0123456789abcdef0123456789abcdef"})

	csrf := findCookie(get(a, "/admin/").Result().Cookies(), "_csrf")
	require.NotNil(t, csrf)
	form := url.Values{"_csrf": {csrf.Value}}
	req := httptest.NewRequest(http.MethodPost, "/admin/reimport/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Cookie", cookieHeader([]*http.Cookie{csrf}))
	rec := serve(a, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get(echo.HeaderLocation))
}

func TestAdminPostWithoutCSRFIsForbidden(t *testing.T) {
	a := newTestApp(t, SiteConfig{AdminPassword: "hunter2", SessionSecret: "0123456789abcdef0123456789abcdef"})

	form := url.Values{"password": {"hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := serve(a, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
