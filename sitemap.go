package agamdocs

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aruvili/agamdocs/resolve"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists one URL per sidebar leaf, in sidebar order. lastmod
// comes from the stored document when there is one.
func (a *App) renderSitemap(c echo.Context) error {
	base := a.Config.URL
	docs, err := a.Store.ListDocs()
	if err != nil {
		return err
	}
	modified := make(map[string]string, len(docs))
	for _, d := range docs {
		if !d.UpdatedAt.IsZero() {
			modified[d.ResourceID] = d.UpdatedAt.Format("2006-01-02")
		}
	}

	var urls []sitemapURL
	seen := make(map[string]bool)
	for _, leaf := range a.Nav.Leaves() {
		slug := resolve.Normalize(leaf.Href)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "docs", slug),
			LastMod: modified[a.Resolver.Resolve(slug)],
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
