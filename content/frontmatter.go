package content

import (
	"bytes"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// postMeta is the YAML front-matter envelope at the top of each document.
type postMeta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Published   *bool    `yaml:"published"`
	Slug        string   `yaml:"slug"`
}

// ParsePost splits YAML front matter from the Markdown body of a document.
// Parsing is deliberately permissive: a malformed header falls back to
// defaults and the whole source is kept as the body, so a bad file never
// takes the site down. The slug defaults to the filename without extension.
func ParsePost(filename string, source []byte) Post {
	var meta postMeta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		meta = postMeta{}
		body = source
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = SlugFromFilename(filename)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = slug
	}

	date := strings.TrimSpace(meta.Date)
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			date = ""
		}
	}

	published := true
	if meta.Published != nil {
		published = *meta.Published
	}

	return Post{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(meta.Description),
		Date:        date,
		Tags:        normalizeTags(meta.Tags),
		Link:        "/blog/" + slug + "/",
		Body:        string(body),
		Published:   published,
	}
}

// SlugFromFilename derives a slug from a Markdown filename.
func SlugFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".md")
	var b strings.Builder
	prev := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t := normalizeTag(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
