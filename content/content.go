// Package content loads blog posts and standalone pages from a directory
// of Markdown files with YAML front matter. The Repository is an explicit
// value with a Load/Reload lifecycle; it never mutates the files it reads.
package content

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post or page does not exist.
var ErrNotFound = errors.New("content: not found")

// pagesSubdir holds standalone pages (about, work) inside the content root.
const pagesSubdir = "pages"

// Post is the core content type parsed from a Markdown file.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        string // ISO date, "2006-01-02"
	Tags        []string
	Link        string
	Body        string // raw Markdown, front matter stripped
	Published   bool
}

// Repository holds all posts and pages loaded from a content directory.
type Repository struct {
	mu     sync.RWMutex
	dir    string
	posts  []Post // published only, date descending
	all    []Post // everything, date descending
	pages  map[string]Post
	tags   []string
	loaded time.Time
}

// NewRepository creates a Repository rooted at dir. Call Load before use.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir, pages: map[string]Post{}}
}

// Load reads every Markdown file under the content root. A missing
// directory yields an empty repository, not an error.
func (r *Repository) Load() error {
	all, err := readDir(r.dir)
	if err != nil {
		return err
	}
	pages, err := readDir(filepath.Join(r.dir, pagesSubdir))
	if err != nil {
		return err
	}

	// Date descending; lexicographic compare is correct for ISO dates.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date > all[j].Date
	})

	var published []Post
	tagSet := make(map[string]struct{})
	for _, p := range all {
		if !p.Published {
			continue
		}
		published = append(published, p)
		for _, t := range p.Tags {
			tagSet[t] = struct{}{}
		}
	}
	var tags []string
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	pageMap := make(map[string]Post, len(pages))
	for _, p := range pages {
		p.Link = "/" + p.Slug + "/"
		pageMap[p.Slug] = p
	}

	r.mu.Lock()
	r.all = all
	r.posts = published
	r.pages = pageMap
	r.tags = tags
	r.loaded = time.Now()
	r.mu.Unlock()
	return nil
}

// Reload re-reads the content directory, replacing the loaded state.
func (r *Repository) Reload() error {
	return r.Load()
}

func readDir(dir string) ([]Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var posts []Post
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		source, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		posts = append(posts, ParsePost(name, source))
	}
	return posts, nil
}

// Posts returns published posts in date-descending order.
// If tag is non-empty, results are filtered to posts carrying that tag.
func (r *Repository) Posts(tag string) []Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if tag == "" {
		return r.posts
	}
	normalized := normalizeTag(tag)
	var filtered []Post
	for _, p := range r.posts {
		for _, t := range p.Tags {
			if t == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// All returns every post, drafts included, in date-descending order.
func (r *Repository) All() []Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.all
}

// Drafts returns unpublished posts in date-descending order.
func (r *Repository) Drafts() []Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var drafts []Post
	for _, p := range r.all {
		if !p.Published {
			drafts = append(drafts, p)
		}
	}
	return drafts
}

// Get returns a published post by slug.
func (r *Repository) Get(slug string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// GetAny returns a post by slug regardless of published status (drafts preview).
func (r *Repository) GetAny(slug string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.all {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Page returns a standalone page (about, work) by slug.
func (r *Repository) Page(slug string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.pages[slug]; ok {
		return p, nil
	}
	return Post{}, ErrNotFound
}

// Pages returns all standalone pages, sorted by slug.
func (r *Repository) Pages() []Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var pages []Post
	for _, p := range r.pages {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages
}

// Tags returns all unique tags from published posts, sorted and lowercased.
func (r *Repository) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tags
}

// LoadedAt reports when the repository last completed a Load.
func (r *Repository) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
