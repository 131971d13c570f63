package markdown

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	diagramLanguage = "mermaid"

	// PlaceholderClass marks inert diagram placeholders in rendered HTML.
	PlaceholderClass = "diagram-placeholder"
	// PlaceholderAttr carries the base64-encoded diagram source.
	PlaceholderAttr = "data-diagram"
)

// Diagram replaces fenced code blocks tagged "mermaid" with inert
// placeholder elements carrying the diagram source as an encoded attribute.
// A later hydration pass substitutes each placeholder exactly once.
var Diagram = diagramExtension{}

type diagramExtension struct{}

func (e diagramExtension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(diagramTransformer{}, 110),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(diagramRenderer{}, 110),
		),
	)
}

var diagramKind = ast.NewNodeKind("DiagramPlaceholder")

type diagramNode struct {
	ast.BaseBlock
}

func (n *diagramNode) Kind() ast.NodeKind { return diagramKind }

func (n *diagramNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type diagramTransformer struct{}

var _ parser.ASTTransformer = diagramTransformer{}

func (t diagramTransformer) Transform(document *ast.Document, reader text.Reader, _ parser.Context) {
	var nodes []ast.Node
	ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(string(fenced.Language(reader.Source())))
		if strings.TrimSpace(lang) != diagramLanguage {
			return ast.WalkContinue, nil
		}
		nodes = append(nodes, fenced)
		return ast.WalkContinue, nil
	})
	for _, node := range nodes {
		parent := node.Parent()
		if parent == nil {
			continue
		}
		placeholder := &diagramNode{}
		placeholder.SetLines(node.Lines())
		parent.ReplaceChild(parent, node, placeholder)
	}
}

type diagramRenderer struct{}

var _ renderer.NodeRenderer = diagramRenderer{}

func (r diagramRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(diagramKind, func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var b bytes.Buffer
		lines := node.(*diagramNode).Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			b.Write(line.Value(source))
		}
		_, _ = w.WriteString(`<pre class="` + PlaceholderClass + `" ` + PlaceholderAttr + `="`)
		_, _ = w.WriteString(EncodeDiagram(b.String()))
		_, _ = w.WriteString(`"></pre>` + "\n")
		return ast.WalkContinue, nil
	})
}

// EncodeDiagram encodes diagram source for embedding in an HTML attribute.
func EncodeDiagram(source string) string {
	return base64.StdEncoding.EncodeToString([]byte(source))
}

// DecodeDiagram restores the original diagram source from a placeholder
// attribute value. The round trip is lossless.
func DecodeDiagram(encoded string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
