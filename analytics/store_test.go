package analytics

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	val, err := store.GetSetting("missing")
	if err != nil {
		t.Fatal(err)
	}
	if val != "" {
		t.Errorf("missing key should yield empty string, got %q", val)
	}

	if err := store.SetSetting("salt", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSetting("salt", "def"); err != nil {
		t.Fatal(err)
	}
	val, err = store.GetSetting("salt")
	if err != nil {
		t.Fatal(err)
	}
	if val != "def" {
		t.Errorf("GetSetting = %q, want upserted value %q", val, "def")
	}
}

func TestSaveVisitAndPathCounts(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	visits := []Visit{
		{IPHash: "h1", Path: "/blog/a/", Timestamp: now},
		{IPHash: "h2", Path: "/blog/a/", Referrer: "https://example.com", Timestamp: now},
		{IPHash: "h1", Path: "/blog/b/", Timestamp: now},
	}
	for _, v := range visits {
		if err := store.SaveVisit(v); err != nil {
			t.Fatalf("SaveVisit: %v", err)
		}
	}

	counts, err := store.PathCounts(now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 {
		t.Fatalf("got %d paths, want 2: %#v", len(counts), counts)
	}
	if counts[0].Path != "/blog/a/" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %#v, want /blog/a/ with 2 views", counts[0])
	}
	if counts[1].Path != "/blog/b/" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %#v, want /blog/b/ with 1 view", counts[1])
	}
}

func TestPathCountsHonorsSince(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	old := Visit{IPHash: "h1", Path: "/old/", Timestamp: now.AddDate(0, 0, -40)}
	recent := Visit{IPHash: "h1", Path: "/recent/", Timestamp: now}
	for _, v := range []Visit{old, recent} {
		if err := store.SaveVisit(v); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := store.PathCounts(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Path != "/recent/" {
		t.Errorf("counts = %#v, want only /recent/", counts)
	}
}

func TestCleanupOldVisits(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	stale := Visit{IPHash: "h1", Path: "/stale/", Timestamp: now.AddDate(0, 0, -400)}
	fresh := Visit{IPHash: "h1", Path: "/fresh/", Timestamp: now}
	for _, v := range []Visit{stale, fresh} {
		if err := store.SaveVisit(v); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.CleanupOldVisits(365); err != nil {
		t.Fatal(err)
	}
	counts, err := store.PathCounts(now.AddDate(-1, 0, -1))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Path != "/fresh/" {
		t.Errorf("counts after cleanup = %#v, want only /fresh/", counts)
	}
}

func TestInitSaltPersists(t *testing.T) {
	store := newTestStore(t)

	if err := InitSalt(store); err != nil {
		t.Fatal(err)
	}
	stored, err := store.GetSetting("hash_salt")
	if err != nil {
		t.Fatal(err)
	}
	if stored == "" {
		t.Fatal("salt was not persisted")
	}

	h1 := HashIP("203.0.113.7")
	h2 := HashIP("203.0.113.7")
	if h1 != h2 {
		t.Error("HashIP must be deterministic for the same address")
	}
	if h1 == HashIP("203.0.113.8") {
		t.Error("different addresses should hash differently")
	}
}

func TestTrackable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/blog/some-post/", true},
		{"/about/", true},
		{"/public/styles.css", false},
		{"/drafts/", false},
		{"/feed.xml", false},
		{"/sitemap.xml", false},
		{"/robots.txt", false},
		{"/favicon.svg", false},
	}
	for _, tt := range tests {
		if got := trackable(tt.path); got != tt.want {
			t.Errorf("trackable(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
