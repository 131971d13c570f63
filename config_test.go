package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.Name != "Blog" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Blog")
	}
	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ContentDir != "content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if cfg.AnalyticsDatabasePath != "data/analytics.db" {
		t.Errorf("AnalyticsDatabasePath = %q", cfg.AnalyticsDatabasePath)
	}
	if cfg.RenderCacheTTL != 5*time.Minute {
		t.Errorf("RenderCacheTTL = %v", cfg.RenderCacheTTL)
	}
}

func TestSetDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := SiteConfig{Name: "My Site", Addr: ":8080"}
	cfg.setDefaults()

	if cfg.Name != "My Site" || cfg.Addr != ":8080" {
		t.Errorf("explicit values overwritten: %#v", cfg)
	}
}

func TestLoadSiteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := `name: Nordvik
url: https://nordvik.dev
description: Notes on systems
author: A. Nordvik
analytics_enabled: true
render_cache_ttl: 10m
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSiteConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "Nordvik" || cfg.URL != "https://nordvik.dev" {
		t.Errorf("cfg = %#v", cfg)
	}
	if !cfg.AnalyticsEnabled {
		t.Error("analytics_enabled not parsed")
	}
	if cfg.RenderCacheTTL != 10*time.Minute {
		t.Errorf("RenderCacheTTL = %v, want 10m", cfg.RenderCacheTTL)
	}
}

func TestLoadSiteConfigErrors(t *testing.T) {
	if _, err := LoadSiteConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should be an error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSiteConfig(path); err == nil {
		t.Error("malformed YAML should be an error")
	}
}

func TestSecretsNeverReadFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := "drafts_password: leaked\nsession_secret: leaked\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSiteConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DraftsPassword != "" || cfg.SessionSecret != "" {
		t.Errorf("secrets must come from the environment only, got %#v", cfg)
	}
}
