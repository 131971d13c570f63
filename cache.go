package folio

import (
	"sync"
	"time"
)

// RenderCache holds rendered, hydrated post HTML per slug with a TTL.
// It is owned by the App; there is no process-global cache.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]renderEntry
	ttl     time.Duration
}

type renderEntry struct {
	html     string
	rendered time.Time
}

// NewRenderCache creates a RenderCache with the given TTL.
func NewRenderCache(ttl time.Duration) *RenderCache {
	return &RenderCache{entries: make(map[string]renderEntry), ttl: ttl}
}

// Get returns the cached HTML for slug if present and fresh.
func (c *RenderCache) Get(slug string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[slug]
	if !ok || time.Since(entry.rendered) >= c.ttl {
		return "", false
	}
	return entry.html, true
}

// Set stores rendered HTML for slug.
func (c *RenderCache) Set(slug, html string) {
	c.mu.Lock()
	c.entries[slug] = renderEntry{html: html, rendered: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops all cached renders so the next read re-renders.
func (c *RenderCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]renderEntry)
	c.mu.Unlock()
}
