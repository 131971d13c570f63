// Package hydrate substitutes inert placeholder elements in rendered HTML
// with final markup. Placeholders are matched against a typed whitelist of
// supported elements and attributes; anything outside that set is ignored.
package hydrate

import (
	stdhtml "html"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nordvik/folio/markdown"
)

// RenderFunc produces replacement markup from a placeholder's raw attribute
// value. Returning an error degrades that one element to an inline error
// marker; the rest of the document is untouched.
type RenderFunc func(attrValue string) (string, error)

// Rule describes one supported placeholder shape: the element tag it may
// appear on, the attribute carrying the encoded source, and the renderer.
type Rule struct {
	Tag    string
	Attr   string
	Render RenderFunc
}

// Hydrator walks rendered HTML once and replaces each recognized
// placeholder exactly once.
type Hydrator struct {
	rules map[string]Rule // marker class -> rule
}

// New creates a Hydrator with the default diagram rule: placeholders become
// <div class="mermaid"> elements that mermaid.js typesets in the browser.
func New() *Hydrator {
	h := &Hydrator{rules: map[string]Rule{}}
	h.Register(markdown.PlaceholderClass, Rule{
		Tag:    "pre",
		Attr:   markdown.PlaceholderAttr,
		Render: renderMermaid,
	})
	return h
}

// Register adds a placeholder rule for the given marker class.
func (h *Hydrator) Register(class string, rule Rule) {
	h.rules[class] = rule
}

// Apply substitutes all recognized placeholders in the HTML fragment.
// It returns the hydrated fragment and the number of placeholders consumed.
func (h *Hydrator) Apply(fragment string) (string, int, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", 0, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	// Collect first, replace after: replacement markup must not be re-walked.
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if h.match(c) != nil {
				matches = append(matches, c)
				continue
			}
			walk(c)
		}
	}
	walk(body)

	for _, n := range matches {
		rule := h.match(n)
		replacement, err := rule.Render(attrValue(n, rule.Attr))
		if err != nil {
			replacement = errorSpan()
		}
		if err := replaceNode(n, replacement); err != nil {
			return "", 0, err
		}
	}

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", 0, err
		}
	}
	return b.String(), len(matches), nil
}

func (h *Hydrator) match(n *html.Node) *Rule {
	if n.Type != html.ElementNode {
		return nil
	}
	for _, class := range strings.Fields(attrValue(n, "class")) {
		rule, ok := h.rules[class]
		if !ok || n.Data != rule.Tag {
			continue
		}
		return &rule
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func replaceNode(n *html.Node, replacement string) error {
	parent := n.Parent
	nodes, err := html.ParseFragment(strings.NewReader(replacement), &html.Node{
		Type: html.ElementNode, Data: "body", DataAtom: atom.Body,
	})
	if err != nil {
		return err
	}
	for _, repl := range nodes {
		parent.InsertBefore(repl, n)
	}
	parent.RemoveChild(n)
	return nil
}

func renderMermaid(attrValue string) (string, error) {
	source, err := markdown.DecodeDiagram(attrValue)
	if err != nil {
		return "", err
	}
	return `<div class="mermaid">` + stdhtml.EscapeString(source) + `</div>`, nil
}

func errorSpan() string {
	return `<span class="diagram-error">diagram failed to render</span>`
}
