// Package folio is a personal portfolio and technical blog engine built
// with Go, Echo, and templ. Content is a directory of Markdown files with
// YAML front matter; folio handles loading, the Markdown pipeline (GFM,
// math, diagrams), feeds, sitemap, a drafts preview area, and analytics.
//
// Users provide their own templ components via the ViewFuncs struct, and
// folio handles all the handler logic, middleware, and content plumbing.
package folio

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/nordvik/folio/analytics"
	"github.com/nordvik/folio/content"
	"github.com/nordvik/folio/hydrate"
	"github.com/nordvik/folio/markdown"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home            func(posts []content.Post, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial     func(posts []content.Post, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection     func(posts []content.Post, activeTag string, tags []string) templ.Component
	Post            func(post content.Post, html string, posts []content.Post, siteURL string) templ.Component
	PostPartial     func(post content.Post, html string, posts []content.Post, siteURL string) templ.Component
	Page            func(page content.Post, html string, siteURL string) templ.Component
	DraftsLogin     func(showError bool, csrfToken string) templ.Component
	DraftsDashboard func(drafts []content.Post, counts []analytics.PathCount, csrfToken string) templ.Component
	NotFound        func() templ.Component
	ServerError     func() templ.Component
}

// App is the central folio application. It wires together the content
// repository, pipeline, cache, handlers, middleware, and user templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Content  *content.Repository
	Pipeline *markdown.Pipeline
	Hydrator *hydrate.Hydrator
	Cache    *RenderCache
	Views    ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start loads the content repository, initializes the pipeline, cache,
// middleware, and routes, and starts the server.
func (a *App) Start() error {
	// Validate required config
	if a.Config.DraftsPassword == "" {
		return fmt.Errorf("folio: DraftsPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	// Load content
	a.Content = content.NewRepository(a.Config.ContentDir)
	if err := a.Content.Load(); err != nil {
		return fmt.Errorf("folio: load content: %w", err)
	}

	// Initialize pipeline and cache
	a.Pipeline = markdown.New()
	a.Hydrator = hydrate.New()
	a.Cache = NewRenderCache(a.Config.RenderCacheTTL)

	// Process content images into the static dir
	if _, err := ProcessAssets(a.Config.ContentDir, a.staticDir); err != nil {
		return fmt.Errorf("folio: process assets: %w", err)
	}

	// Initialize login limiter
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	// Initialize analytics if enabled
	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("folio: init analytics salt: %w", err)
		}
		stopCleanup := store.StartCleanupScheduler(365, 24*time.Hour)
		defer stopCleanup()
	}

	// Setup middleware
	a.setupMiddleware()

	// Setup routes
	a.setupRoutes()

	// Apply custom routes
	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Start server
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets (processed content images land here too)
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Drafts preview routes
	e.GET("/drafts/", a.handleDrafts)
	e.POST("/drafts/login/", a.handleDraftsLogin)
	e.POST("/drafts/logout/", handleDraftsLogout)
	e.GET("/drafts/post/:slug/", a.handleDraftsPost)
	e.POST("/drafts/reload/", a.handleDraftsReload)

	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		e.Use(analytics.Middleware(a.analyticsStore))
	}

	// Standalone pages (about, work). Registered last so static routes win.
	e.GET("/:slug/", a.handlePage)
}

// Reload re-reads the content directory and drops all cached renders.
func (a *App) Reload() error {
	if err := a.Content.Reload(); err != nil {
		return err
	}
	a.Cache.Invalidate()
	if _, err := ProcessAssets(a.Config.ContentDir, a.staticDir); err != nil {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
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

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
