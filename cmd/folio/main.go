// Command folio serves a personal portfolio and blog from a directory of
// Markdown content. Site branding comes from flags, an optional YAML config
// file, and environment variables; secrets come from the environment only.
package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/nordvik/folio"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML site config")
		contentDir  = flag.String("content", "", "content directory (overrides config)")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		siteURL     = flag.String("site-url", "", "canonical site URL (overrides config)")
		staticDir   = flag.String("static", "public", "static assets directory")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("folio %s\n", version)
		return
	}

	var cfg folio.SiteConfig
	if *configPath != "" {
		loaded, err := folio.LoadSiteConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	if cfg.Name == "" {
		cfg.Name = folio.EnvOr("SITE_NAME", "")
	}
	if cfg.URL == "" {
		cfg.URL = folio.EnvOr("SITE_URL", "")
	}
	if cfg.Description == "" {
		cfg.Description = os.Getenv("SITE_DESCRIPTION")
	}
	if cfg.Author == "" {
		cfg.Author = os.Getenv("SITE_AUTHOR")
	}
	if *contentDir != "" {
		cfg.ContentDir = *contentDir
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *siteURL != "" {
		cfg.URL = *siteURL
	}

	cfg.DraftsPassword = folio.MustEnv("DRAFTS_PASSWORD")
	cfg.SessionSecret = folio.MustEnv("SESSION_SECRET")

	app := folio.New(cfg, defaultViews(cfg), folio.WithStaticDir(*staticDir))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
