package hydrate

import (
	"strings"
	"testing"

	"github.com/nordvik/folio/markdown"
)

func placeholder(source string) string {
	return `<pre class="` + markdown.PlaceholderClass + `" ` +
		markdown.PlaceholderAttr + `="` + markdown.EncodeDiagram(source) + `"></pre>`
}

func TestApplyReplacesDiagramPlaceholder(t *testing.T) {
	h := New()
	in := "<p>before</p>" + placeholder("graph TD;\nA-->B;\n") + "<p>after</p>"

	out, n, err := h.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("consumed %d placeholders, want 1", n)
	}
	if !strings.Contains(out, `<div class="mermaid">`) {
		t.Errorf("output missing mermaid container: %s", out)
	}
	if !strings.Contains(out, "A--&gt;B") {
		t.Errorf("diagram source not escaped into output: %s", out)
	}
	if strings.Contains(out, markdown.PlaceholderClass) {
		t.Errorf("placeholder survived hydration: %s", out)
	}
	if !strings.Contains(out, "<p>before</p>") || !strings.Contains(out, "<p>after</p>") {
		t.Errorf("surrounding markup disturbed: %s", out)
	}
}

func TestApplyCountsEveryPlaceholderOnce(t *testing.T) {
	h := New()
	in := placeholder("graph LR;") + "<p>x</p>" + placeholder("sequenceDiagram")

	out, n, err := h.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("consumed %d placeholders, want 2", n)
	}
	if got := strings.Count(out, `<div class="mermaid">`); got != 2 {
		t.Errorf("output has %d mermaid containers, want 2: %s", got, out)
	}
}

func TestApplyBadPayloadDegradesToErrorSpan(t *testing.T) {
	h := New()
	in := `<pre class="` + markdown.PlaceholderClass + `" ` +
		markdown.PlaceholderAttr + `="%%%not-base64%%%"></pre><p>rest</p>`

	out, n, err := h.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("consumed %d placeholders, want 1", n)
	}
	if !strings.Contains(out, `<span class="diagram-error">`) {
		t.Errorf("expected inline error marker, got: %s", out)
	}
	if !strings.Contains(out, "<p>rest</p>") {
		t.Errorf("rest of document disturbed: %s", out)
	}
}

func TestApplyIgnoresUnrelatedMarkup(t *testing.T) {
	h := New()
	tests := []struct {
		name string
		in   string
	}{
		{"plain code block", `<pre class="chroma"><code>x := 1</code></pre>`},
		{"marker class on wrong tag", `<div class="` + markdown.PlaceholderClass + `">nope</div>`},
		{"no placeholders at all", "<p>hello <em>world</em></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n, err := h.Apply(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if n != 0 {
				t.Errorf("consumed %d placeholders, want 0", n)
			}
			if out != tt.in {
				t.Errorf("markup changed:\n in: %s\nout: %s", tt.in, out)
			}
		})
	}
}

func TestRegisterCustomRule(t *testing.T) {
	h := New()
	h.Register("embed-placeholder", Rule{
		Tag:  "div",
		Attr: "data-src",
		Render: func(v string) (string, error) {
			return `<iframe src="` + v + `"></iframe>`, nil
		},
	})
	in := `<div class="embed-placeholder" data-src="/x.html"></div>`

	out, n, err := h.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("consumed %d placeholders, want 1", n)
	}
	if !strings.Contains(out, `<iframe src="/x.html">`) {
		t.Errorf("custom rule not applied: %s", out)
	}
}
