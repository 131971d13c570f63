package content

import (
	"reflect"
	"testing"
)

func TestParsePost(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		source string
		want   Post
	}{
		{
			name:   "full header",
			file:   "hello.md",
			source: "---\ntitle: Hello\ndescription: Greetings\ndate: \"2024-01-01\"\ntags: [Go, Web]\n---\n# Hi\n",
			want: Post{
				Slug: "hello", Title: "Hello", Description: "Greetings",
				Date: "2024-01-01", Tags: []string{"go", "web"},
				Link: "/blog/hello/", Body: "# Hi\n", Published: true,
			},
		},
		{
			name:   "no front matter",
			file:   "plain.md",
			source: "just a body",
			want: Post{
				Slug: "plain", Title: "plain", Link: "/blog/plain/",
				Body: "just a body", Published: true,
			},
		},
		{
			name:   "malformed header keeps whole source as body",
			file:   "broken.md",
			source: "---\ntitle: [unclosed\n---\nbody",
			want: Post{
				Slug: "broken", Title: "broken", Link: "/blog/broken/",
				Body: "---\ntitle: [unclosed\n---\nbody", Published: true,
			},
		},
		{
			name:   "invalid date dropped",
			file:   "nodate.md",
			source: "---\ntitle: T\ndate: \"not a date\"\n---\n",
			want: Post{
				Slug: "nodate", Title: "T", Link: "/blog/nodate/",
				Body: "", Published: true,
			},
		},
		{
			name:   "published false respected",
			file:   "wip.md",
			source: "---\ntitle: WIP\npublished: false\n---\nsoon",
			want: Post{
				Slug: "wip", Title: "WIP", Link: "/blog/wip/",
				Body: "soon", Published: false,
			},
		},
		{
			name:   "explicit slug overrides filename",
			file:   "2024-01-05-long-name.md",
			source: "---\ntitle: Short\nslug: short\n---\n",
			want: Post{
				Slug: "short", Title: "Short", Link: "/blog/short/",
				Body: "", Published: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePost(tt.file, []byte(tt.source))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePost() = %#v\nwant %#v", got, tt.want)
			}
		})
	}
}

func TestParsePostIdempotentDefaults(t *testing.T) {
	source := []byte("---\ntitle: Same\n---\nbody")
	first := ParsePost("same.md", source)
	second := ParsePost("same.md", source)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parse is not deterministic: %#v vs %#v", first, second)
	}
}

func TestSlugFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello.md", "hello"},
		{"Hello World.md", "hello-world"},
		{"2024-01-05-post.md", "2024-01-05-post"},
		{"weird__name!!.md", "weird-name"},
		{"TRAILING-.md", "trailing"},
	}
	for _, tt := range tests {
		if got := SlugFromFilename(tt.in); got != tt.want {
			t.Errorf("SlugFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
