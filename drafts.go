package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nordvik/folio/analytics"
	"github.com/nordvik/folio/content"
)

func (a *App) handleDrafts(c echo.Context) error {
	if !IsDraftsReader(c) {
		return Render(c, a.Views.DraftsLogin(false, CsrfToken(c)))
	}
	return a.renderDraftsDashboard(c)
}

func (a *App) handleDraftsLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.DraftsPassword)) == 1 {
		if err := setDraftsSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/drafts/")
	}
	return Render(c, a.Views.DraftsLogin(true, CsrfToken(c)))
}

func handleDraftsLogout(c echo.Context) error {
	if err := clearDraftsSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/drafts/")
}

// handleDraftsPost previews a single post regardless of its published flag.
// The preview always re-renders so edits show up without a cache flush.
func (a *App) handleDraftsPost(c echo.Context) error {
	if !IsDraftsReader(c) {
		return c.Redirect(http.StatusSeeOther, "/drafts/")
	}
	slug := c.Param("slug")
	post, err := a.Content.GetAny(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	html, err := a.Pipeline.Render(post.Body)
	if err != nil {
		return err
	}
	html, _, err = a.Hydrator.Apply(html)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(post, html, a.Content.Posts(""), a.Config.URL))
}

// handleDraftsReload re-reads the content directory on demand.
func (a *App) handleDraftsReload(c echo.Context) error {
	if !IsDraftsReader(c) {
		return c.Redirect(http.StatusSeeOther, "/drafts/")
	}
	if err := a.Reload(); err != nil {
		return err
	}
	return a.renderDraftsDashboard(c)
}

func (a *App) renderDraftsDashboard(c echo.Context) error {
	var counts []analytics.PathCount
	if a.analyticsStore != nil {
		var err error
		counts, err = a.analyticsStore.PathCounts(time.Now().AddDate(0, 0, -30))
		if err != nil {
			return err
		}
	}
	return Render(c, a.Views.DraftsDashboard(a.Content.Drafts(), counts, CsrfToken(c)))
}
