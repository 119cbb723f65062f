package views

import (
	"time"

	"github.com/aruvili/agamdocs/loader"
	"github.com/aruvili/agamdocs/nav"
)

// Site holds site-wide settings every page template needs.
type Site struct {
	Name        string
	URL         string
	Description string
	HTMX        bool // include the htmx script for partial navigation
}

// PageMeta carries per-page SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
}

// DocPage is everything the documentation page renders: the sidebar with
// the active leaf and the content area driven by a loader state.
type DocPage struct {
	Site    Site
	Meta    PageMeta
	Sidebar []nav.Item
	Active  string // normalized slug of the current page
	Section string // title of the section holding the active leaf
	State   loader.State
}

// DocRow is one line of the admin document table.
type DocRow struct {
	ResourceID string
	Title      string
	UpdatedAt  time.Time
	Routed     bool
}

// AdminData feeds the admin dashboard.
type AdminData struct {
	Docs      []DocRow
	Problems  []string
	Message   string
	CSRFToken string
}
