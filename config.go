package agamdocs

import (
	"time"

	"github.com/aruvili/agamdocs/loader"
	"github.com/aruvili/agamdocs/nav"
	"github.com/aruvili/agamdocs/resolve"
)

// SiteConfig holds all configuration for a documentation site.
type SiteConfig struct {
	Name        string // Site name (default "Agam")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Meta description

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/docs.db")
	DocsDir      string // Markdown source imported at startup (default "docs")
	ManifestPath string // Sidebar and route YAML; empty uses the built-in tables

	// ContentOrigin is the base URL the loader fetches /docs/{id} from.
	// Empty reads the local store directly.
	ContentOrigin string
	// FetchTimeout bounds each retrieval (default 15s). Negative disables it.
	FetchTimeout time.Duration
	// Watch re-imports DocsDir whenever a file in it changes.
	Watch          bool
	DisableMetrics bool

	AdminPassword string // Enables /admin/ when set
	SessionSecret string // Required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Agam"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/docs.db"
	}
	if c.DocsDir == "" {
		c.DocsDir = "docs"
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = loader.DefaultTimeout
	}
}

func (c SiteConfig) fetchTimeout() time.Duration {
	if c.FetchTimeout < 0 {
		return 0
	}
	return c.FetchTimeout
}

func (c SiteConfig) adminEnabled() bool {
	return c.AdminPassword != ""
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithNavigation injects the sidebar and route table instead of loading
// them from SiteConfig.ManifestPath.
func WithNavigation(tree *nav.Tree, r *resolve.Resolver) Option {
	return func(a *App) {
		a.Nav = tree
		a.Resolver = r
	}
}

// WithFetcher replaces the loader's content source.
func WithFetcher(f loader.Fetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}

// WithViews overrides the page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
