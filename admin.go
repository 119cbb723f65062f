package agamdocs

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aruvili/agamdocs/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminReimport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	n, err := a.Store.ImportDir(a.Config.DocsDir)
	if err != nil {
		c.Logger().Errorf("reimport %s: %v", a.Config.DocsDir, err)
		return a.renderAdminDashboard(c, "Import failed: "+err.Error())
	}
	return a.renderAdminDashboard(c, fmt.Sprintf("Imported %d documents.", n))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	docs, err := a.Store.ListDocs()
	if err != nil {
		return err
	}
	routed := make(map[string]bool)
	for _, id := range a.Resolver.ResourceIDs() {
		routed[id] = true
	}
	ids := make([]string, 0, len(docs))
	rows := make([]views.DocRow, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ResourceID)
		rows = append(rows, views.DocRow{
			ResourceID: d.ResourceID,
			Title:      d.Title,
			UpdatedAt:  d.UpdatedAt,
			Routed:     routed[d.ResourceID],
		})
	}
	var problems []string
	for _, p := range CheckConsistency(a.Nav, a.Resolver, ids) {
		problems = append(problems, p.String())
	}
	return Render(c, a.Views.AdminDashboard(a.site(), views.AdminData{
		Docs:      rows,
		Problems:  problems,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}
