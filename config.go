package folio

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Markdown content root (default "content")

	AnalyticsEnabled      bool   `yaml:"analytics_enabled"`  // Enable analytics
	AnalyticsDatabasePath string `yaml:"analytics_database"` // Analytics SQLite path (default "data/analytics.db")

	DraftsPassword string `yaml:"-"` // Required: drafts preview password
	SessionSecret  string `yaml:"-"` // Required: session encryption secret
	CookieSecure   bool   `yaml:"cookie_secure"` // Set true for HTTPS

	RenderCacheTTL time.Duration `yaml:"render_cache_ttl"` // Rendered HTML cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.RenderCacheTTL == 0 {
		c.RenderCacheTTL = 5 * time.Minute
	}
}

// LoadSiteConfig reads a SiteConfig from a YAML file. Secrets
// (DraftsPassword, SessionSecret) come from the environment, never the file.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("folio: read config: %w", err)
	}
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("folio: parse config: %w", err)
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
