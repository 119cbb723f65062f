// Package agamdocs serves the Agam language documentation site with Go,
// Echo, and templ.
//
// A sidebar tree and a slug table decide which markdown resource a page
// shows; the loader package fetches it and tracks Pending, Ready and Failed
// states. Documents live in SQLite, imported from a directory of
// NN_topic.md files, and are also served raw at /docs/{resource id}.
package agamdocs

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/aruvili/agamdocs/loader"
	"github.com/aruvili/agamdocs/metrics"
	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
	"github.com/aruvili/agamdocs/views"
)

// HTMXFile is the htmx build the pages load from the static directory when
// it is present.
const HTMXFile = "htmx.min.js"

// ViewFuncs holds the templ components the handlers render. DefaultViews
// wires the views package; override any field with WithViews.
type ViewFuncs struct {
	DocPage        func(p views.DocPage) templ.Component
	DocPartial     func(p views.DocPage) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site views.Site, data views.AdminData) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		DocPage:        views.DocPageView,
		DocPartial:     views.DocPartial,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the documentation server. It wires together the store, the
// navigation, the loader, handlers, middleware and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Nav      *nav.Tree
	Resolver *resolve.Resolver
	Loader   *loader.Loader
	Metrics  *metrics.PrometheusRecorder
	Views    ViewFuncs

	fetcher      loader.Fetcher
	loginLimiter *LoginLimiter
	watcher      *DocsWatcher
	customRoutes []func(*App)
	staticDir    string
	htmx         bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, imports the docs directory, builds the loader and
// registers middleware and routes. Start calls it; tests call it directly
// and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.adminEnabled() && a.Config.SessionSecret == "" {
		return fmt.Errorf("agamdocs: SessionSecret is required when AdminPassword is set")
	}

	if a.Nav == nil || a.Resolver == nil {
		tree, r, err := LoadManifest(a.Config.ManifestPath)
		if err != nil {
			return fmt.Errorf("agamdocs: %w", err)
		}
		a.Nav, a.Resolver = tree, r
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("agamdocs: init store: %w", err)
	}
	a.Store = store

	if err := a.importDocs(); err != nil {
		return fmt.Errorf("agamdocs: import docs: %w", err)
	}

	if !a.Config.DisableMetrics {
		a.Metrics = metrics.NewPrometheusRecorder(nil)
	}

	a.Loader = loader.New(a.Resolver, a.contentFetcher(), a.loaderOptions()...)

	if _, err := os.Stat(filepath.Join(a.staticDir, HTMXFile)); err == nil {
		a.htmx = true
	} else {
		a.Echo.Logger.Warnf("%s not found in %s, sidebar links use full page loads", HTMXFile, a.staticDir)
	}

	if a.Config.adminEnabled() {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) contentFetcher() loader.Fetcher {
	switch {
	case a.fetcher != nil:
		return a.fetcher
	case a.Config.ContentOrigin != "":
		return loader.NewHTTPFetcher(a.Config.ContentOrigin, &http.Client{})
	default:
		return StoreFetcher{Store: a.Store}
	}
}

func (a *App) loaderOptions() []loader.Option {
	opts := []loader.Option{
		loader.WithLogger(a.Echo.Logger),
		loader.WithTimeout(a.Config.fetchTimeout()),
	}
	if a.Metrics != nil {
		opts = append(opts, loader.WithRecorder(a.Metrics))
	}
	return opts
}

// importDocs loads DocsDir into the store. A missing directory is not an
// error; the store keeps whatever it already holds.
func (a *App) importDocs() error {
	if _, err := os.Stat(a.Config.DocsDir); os.IsNotExist(err) {
		a.Echo.Logger.Warnf("docs directory %s not found, serving stored documents", a.Config.DocsDir)
		return nil
	}
	n, err := a.Store.ImportDir(a.Config.DocsDir)
	if err != nil {
		return err
	}
	a.Echo.Logger.Infof("imported %d documents from %s", n, a.Config.DocsDir)
	return nil
}

// Start initializes the app, starts the docs watcher when enabled and
// serves until the server is closed.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}

	if a.Config.Watch {
		w, err := WatchDocs(a.Config.DocsDir, DefaultWatchDebounce, func() {
			if err := a.importDocs(); err != nil {
				a.Echo.Logger.Errorf("reimport: %v", err)
			}
		}, a.Echo.Logger)
		if err != nil {
			return fmt.Errorf("agamdocs: watch %s: %w", a.Config.DocsDir, err)
		}
		a.watcher = w
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/docs.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/healthz", a.handleHealth)
	if a.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))
	}

	e.GET("/", handleHomeRedirect)
	e.GET("/docs", a.handleDocsIndex)
	e.GET("/docs/", a.handleDocsIndex)
	e.GET("/docs/:slug/", a.handleDoc)
	e.GET("/docs/:slug", a.handleResource)

	if a.Config.adminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/reimport/", a.handleAdminReimport)
	}
}

// Close stops the watcher and releases the store.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvBool parses a boolean environment variable, returning fallback when it
// is unset or malformed.
func EnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// EnvDuration parses a duration environment variable such as "15s".
func EnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("agamdocs: required environment variable %s is not set", key)
	}
	return v
}
