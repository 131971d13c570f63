package content

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func setupRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo := NewRepository(dir)
	return repo, dir
}

func TestLoadMissingDirectoryYieldsEmpty(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load on missing dir should not fail: %v", err)
	}
	if posts := repo.Posts(""); len(posts) != 0 {
		t.Errorf("expected empty post list, got %d posts", len(posts))
	}
}

func TestLoadFiltersUnpublished(t *testing.T) {
	repo, dir := setupRepo(t)
	writeFile(t, dir, "live.md", "---\ntitle: Live\ndate: \"2024-01-01\"\n---\nbody")
	writeFile(t, dir, "draft.md", "---\ntitle: Draft\ndate: \"2024-02-01\"\npublished: false\n---\nbody")
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}

	posts := repo.Posts("")
	if len(posts) != 1 || posts[0].Slug != "live" {
		t.Fatalf("expected only the published post, got %#v", posts)
	}
	if all := repo.All(); len(all) != 2 {
		t.Errorf("All should include drafts, got %d", len(all))
	}
	drafts := repo.Drafts()
	if len(drafts) != 1 || drafts[0].Slug != "draft" {
		t.Errorf("Drafts = %#v, want the draft post", drafts)
	}
}

func TestPostsSortedByDateDescending(t *testing.T) {
	repo, dir := setupRepo(t)
	writeFile(t, dir, "old.md", "---\ntitle: Old\ndate: \"2023-05-01\"\n---\n")
	writeFile(t, dir, "new.md", "---\ntitle: New\ndate: \"2024-05-01\"\n---\n")
	writeFile(t, dir, "mid.md", "---\ntitle: Mid\ndate: \"2023-12-31\"\n---\n")
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}

	posts := repo.Posts("")
	want := []string{"new", "mid", "old"}
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, slug := range want {
		if posts[i].Slug != slug {
			t.Errorf("posts[%d].Slug = %q, want %q", i, posts[i].Slug, slug)
		}
	}
}

func TestPostsTagFilter(t *testing.T) {
	repo, dir := setupRepo(t)
	writeFile(t, dir, "a.md", "---\ntitle: A\ndate: \"2024-01-01\"\ntags: [go, web]\n---\n")
	writeFile(t, dir, "b.md", "---\ntitle: B\ndate: \"2024-01-02\"\ntags: [rust]\n---\n")
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}

	if posts := repo.Posts("go"); len(posts) != 1 || posts[0].Slug != "a" {
		t.Errorf("Posts(go) = %#v, want post a", posts)
	}
	if posts := repo.Posts("GO"); len(posts) != 1 {
		t.Errorf("tag filter should be case-insensitive, got %#v", posts)
	}
	tags := repo.Tags()
	if len(tags) != 3 || tags[0] != "go" || tags[1] != "rust" || tags[2] != "web" {
		t.Errorf("Tags = %#v, want [go rust web]", tags)
	}
}

func TestGetAndGetAny(t *testing.T) {
	repo, dir := setupRepo(t)
	writeFile(t, dir, "draft.md", "---\ntitle: Draft\npublished: false\n---\n")
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get("draft"); err != ErrNotFound {
		t.Errorf("Get on a draft should return ErrNotFound, got %v", err)
	}
	post, err := repo.GetAny("draft")
	if err != nil {
		t.Fatalf("GetAny: %v", err)
	}
	if post.Published {
		t.Error("draft should not be published")
	}
	if _, err := repo.Get("nope"); err != ErrNotFound {
		t.Errorf("unknown slug should return ErrNotFound, got %v", err)
	}
}

func TestPagesLoadedFromSubdir(t *testing.T) {
	repo, dir := setupRepo(t)
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "pages"), "about.md", "---\ntitle: About me\n---\n# Hello")
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}

	page, err := repo.Page("about")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Title != "About me" || page.Link != "/about/" {
		t.Errorf("page = %#v", page)
	}
	if posts := repo.Posts(""); len(posts) != 0 {
		t.Errorf("pages must not appear in the post listing, got %#v", posts)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	repo, dir := setupRepo(t)
	if err := repo.Load(); err != nil {
		t.Fatal(err)
	}
	if len(repo.Posts("")) != 0 {
		t.Fatal("expected empty repository")
	}

	writeFile(t, dir, "later.md", "---\ntitle: Later\ndate: \"2024-03-01\"\n---\n")
	if err := repo.Reload(); err != nil {
		t.Fatal(err)
	}
	if posts := repo.Posts(""); len(posts) != 1 {
		t.Errorf("Reload should pick up new files, got %#v", posts)
	}
}
