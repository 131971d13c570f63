// Package markdown converts Markdown to HTML for blog posts and pages.
// The pipeline is goldmark with GFM extensions, chroma syntax highlighting,
// server-rendered math, and inert placeholders for Mermaid diagrams.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	crlfOrCR        = regexp.MustCompile(`\r\n?`)
	fencedCodeBlock = regexp.MustCompile("^(```|~~~)")
)

// Pipeline converts Markdown source to an HTML fragment. The stage order is
// fixed: parse, GFM extensions, math, diagram placeholders, serialization.
type Pipeline struct {
	md goldmark.Markdown
}

// New creates a Pipeline with the canonical extension set.
func New() *Pipeline {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
			Math,
			Diagram,
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &Pipeline{md: md}
}

// Render converts Markdown source to an HTML fragment.
func (p *Pipeline) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(preprocess(source)), &buf); err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	return buf.String(), nil
}

// preprocess normalizes line endings and compresses runs of blank lines
// before the source reaches the parser.
func preprocess(source string) string {
	source = crlfOrCR.ReplaceAllString(source, "\n")
	return compressBlankLines(source)
}

// compressBlankLines limits consecutive blank lines to one outside fenced
// code blocks. Fence content is kept byte for byte.
func compressBlankLines(source string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	inCodeBlock := false
	blanks := 0
	for _, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
			blanks = 0
			out = append(out, line)
			continue
		}
		if !inCodeBlock && strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

var defaultPipeline = New()

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := defaultPipeline.Render(content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
