// Package analytics provides privacy-first page-view counting.
// IP addresses are never stored raw: they are hashed with a
// per-installation random salt before hitting the database.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// salt holds the per-installation random salt for IP hashing, protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for IP hashing.
// Must be called once at startup before any requests are served.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

// HashIP returns a salted hash of the given IP address.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(salt.value + ip))
	return hex.EncodeToString(sum[:])
}

// Visit represents a single page view.
type Visit struct {
	ID        int64
	IPHash    string
	Path      string
	Referrer  string
	Timestamp time.Time
}

// PathCount is an aggregated view count for one page path.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Middleware records successful GET page views. Static assets, feeds, and
// the drafts area are skipped. Recording failures are logged, never fatal.
func Middleware(store *Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || c.Request().Method != "GET" {
				return err
			}
			path := c.Request().URL.Path
			if !trackable(path) || c.Response().Status >= 300 {
				return nil
			}
			visit := Visit{
				IPHash:    HashIP(c.RealIP()),
				Path:      path,
				Referrer:  c.Request().Referer(),
				Timestamp: time.Now().UTC(),
			}
			if saveErr := store.SaveVisit(visit); saveErr != nil {
				c.Logger().Errorf("analytics: save visit: %v", saveErr)
			}
			return nil
		}
	}
}

func trackable(path string) bool {
	switch {
	case strings.HasPrefix(path, "/public"),
		strings.HasPrefix(path, "/drafts"),
		path == "/sitemap.xml", path == "/feed.xml",
		path == "/robots.txt", path == "/favicon.svg":
		return false
	}
	return true
}
