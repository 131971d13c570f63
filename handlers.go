package folio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nordvik/folio/content"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts := a.Content.Posts(tag)
	tags := a.Content.Tags()
	if c.Request().Header.Get("HX-Request") == "true" {
		partial := c.QueryParam("partial")
		switch partial {
		case "blog":
			return Render(c, a.Views.BlogSection(posts, tag, tags))
		case "home":
			return Render(c, a.Views.HomePartial(posts, tag, tags, a.Config.URL))
		}
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Content.Get(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	html, err := a.renderPost(post)
	if err != nil {
		return err
	}
	posts := a.Content.Posts("")
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(post, html, posts, a.Config.URL))
	}
	return Render(c, a.Views.Post(post, html, posts, a.Config.URL))
}

func (a *App) handlePage(c echo.Context) error {
	slug := c.Param("slug")
	page, err := a.Content.Page(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	html, err := a.renderPost(page)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(page, html, a.Config.URL))
}

// renderPost runs a post's body through the pipeline and hydrator, caching
// the result per slug.
func (a *App) renderPost(p content.Post) (string, error) {
	if html, ok := a.Cache.Get(p.Slug); ok {
		return html, nil
	}
	html, err := a.Pipeline.Render(p.Body)
	if err != nil {
		return "", err
	}
	html, _, err = a.Hydrator.Apply(html)
	if err != nil {
		return "", err
	}
	a.Cache.Set(p.Slug, html)
	return html, nil
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Content.Posts(""), a.Content.Pages())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Content.Posts(""))
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically with a sitemap pointer.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /drafts/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
