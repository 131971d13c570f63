package main

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/nordvik/folio"
	"github.com/nordvik/folio/analytics"
	"github.com/nordvik/folio/content"
	"github.com/nordvik/folio/views"
)

// defaultViews builds a plain, unstyled set of templates so the binary is
// usable out of the box. Real sites replace these with their own templ
// components via folio.ViewFuncs.
func defaultViews(cfg folio.SiteConfig) folio.ViewFuncs {
	site := views.Site{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
	}

	postList := func(w io.Writer, posts []content.Post, activeTag string, tags []string) {
		fmt.Fprint(w, "<nav>")
		for _, t := range tags {
			fmt.Fprintf(w, `<a href="/?tag=%s">%s</a> `, views.PathEscape(t), html.EscapeString(t))
		}
		fmt.Fprint(w, "</nav><ul>")
		for _, p := range posts {
			fmt.Fprintf(w, `<li><a href="%s">%s</a> <time>%s</time></li>`,
				html.EscapeString(p.Link), html.EscapeString(p.Title), html.EscapeString(p.Date))
		}
		fmt.Fprint(w, "</ul>")
	}

	home := func(posts []content.Post, activeTag string, tags []string, siteURL string) templ.Component {
		return page(site, site.Name, func(w io.Writer) {
			fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(site.Name))
			postList(w, posts, activeTag, tags)
		})
	}

	post := func(p content.Post, body string, posts []content.Post, siteURL string) templ.Component {
		return page(site, p.Title, func(w io.Writer) {
			fmt.Fprintf(w, "<article><h1>%s</h1><time>%s</time>", html.EscapeString(p.Title), html.EscapeString(p.Date))
			io.WriteString(w, body)
			fmt.Fprint(w, "</article>")
			fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, views.BlogPostingJsonLD(site, p))
		})
	}

	return folio.ViewFuncs{
		Home:        home,
		HomePartial: home,
		BlogSection: func(posts []content.Post, activeTag string, tags []string) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				postList(w, posts, activeTag, tags)
				return nil
			})
		},
		Post:        post,
		PostPartial: post,
		Page: func(p content.Post, body string, siteURL string) templ.Component {
			return page(site, p.Title, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(p.Title))
				io.WriteString(w, body)
			})
		},
		DraftsLogin: func(showError bool, csrfToken string) templ.Component {
			return page(site, "Drafts", func(w io.Writer) {
				if showError {
					fmt.Fprint(w, "<p>Wrong password.</p>")
				}
				fmt.Fprintf(w, `<form method="post" action="/drafts/login/">`+
					`<input type="hidden" name="_csrf" value="%s"/>`+
					`<input type="password" name="password"/>`+
					`<button type="submit">Log in</button></form>`, html.EscapeString(csrfToken))
			})
		},
		DraftsDashboard: func(drafts []content.Post, counts []analytics.PathCount, csrfToken string) templ.Component {
			return page(site, "Drafts", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Drafts</h1><ul>")
				for _, p := range drafts {
					fmt.Fprintf(w, `<li><a href="/drafts/post/%s/">%s</a></li>`,
						views.PathEscape(p.Slug), html.EscapeString(p.Title))
				}
				fmt.Fprint(w, "</ul>")
				if len(counts) > 0 {
					fmt.Fprint(w, "<h2>Views (30 days)</h2><ul>")
					for _, pc := range counts {
						fmt.Fprintf(w, "<li>%s: %d</li>", html.EscapeString(pc.Path), pc.Count)
					}
					fmt.Fprint(w, "</ul>")
				}
				fmt.Fprintf(w, `<form method="post" action="/drafts/reload/">`+
					`<input type="hidden" name="_csrf" value="%s"/>`+
					`<button type="submit">Reload content</button></form>`, html.EscapeString(csrfToken))
			})
		},
		NotFound: func() templ.Component {
			return page(site, "Not found", func(w io.Writer) {
				fmt.Fprint(w, "<h1>404</h1><p>Page not found.</p>")
			})
		},
		ServerError: func() templ.Component {
			return page(site, "Error", func(w io.Writer) {
				fmt.Fprint(w, "<h1>500</h1><p>Something went wrong.</p>")
			})
		},
	}
}

// page wraps body markup in a minimal HTML document with head metadata.
func page(site views.Site, title string, body func(io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"/><title>%s — %s</title>`,
			html.EscapeString(title), html.EscapeString(site.Name))
		if site.Description != "" {
			fmt.Fprintf(w, `<meta name="description" content="%s"/>`, html.EscapeString(site.Description))
		}
		fmt.Fprintf(w, `<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`)
		fmt.Fprint(w, "</head><body>")
		body(w)
		fmt.Fprint(w, "</body></html>")
		return nil
	})
}
