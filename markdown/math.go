package markdown

import (
	"bytes"
	stdhtml "html"
	"strings"

	"git.sr.ht/~mekyt/latex2mathml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// Math renders LaTeX to MathML on the server: inline $...$ expressions and
// fenced code blocks tagged "math". Malformed input degrades to an inline
// error span; the rest of the document renders normally.
var Math = mathExtension{}

type mathExtension struct{}

func (e mathExtension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(inlineMathParser{}, 500),
		),
		parser.WithASTTransformers(
			util.Prioritized(mathTransformer{}, 100),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(mathRenderer{}, 100),
		),
	)
}

var (
	blockMathKind  = ast.NewNodeKind("MathBlock")
	inlineMathKind = ast.NewNodeKind("MathInline")
)

type blockMathNode struct {
	ast.BaseBlock
}

func (n *blockMathNode) Kind() ast.NodeKind { return blockMathKind }

func (n *blockMathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type inlineMathNode struct {
	ast.BaseInline
	value []byte
}

func (n *inlineMathNode) Kind() ast.NodeKind { return inlineMathKind }

func (n *inlineMathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.value)}, nil)
}

// inlineMathParser parses $...$ spans on a single line. A lone dollar sign
// stays literal text, and so do dollar amounts in prose: the delimiters
// must hug the expression, and a closer directly followed by a digit is
// treated as currency, not math.
type inlineMathParser struct{}

var _ parser.InlineParser = inlineMathParser{}

func (p inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (p inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 3 || line[0] != '$' || line[1] == '$' {
		return nil
	}
	end := bytes.IndexByte(line[1:], '$')
	if end < 0 {
		return nil
	}
	value := line[1 : 1+end]
	if len(bytes.TrimSpace(value)) == 0 {
		return nil
	}
	if util.IsSpace(value[0]) || util.IsSpace(value[len(value)-1]) {
		return nil
	}
	if rest := line[end+2:]; len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
		return nil
	}
	block.Advance(end + 2)
	return &inlineMathNode{value: append([]byte(nil), value...)}
}

// mathTransformer rewrites fenced code blocks tagged "math" into block math nodes.
type mathTransformer struct{}

var _ parser.ASTTransformer = mathTransformer{}

func (t mathTransformer) Transform(document *ast.Document, reader text.Reader, _ parser.Context) {
	var nodes []ast.Node
	ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !bytes.Equal(fenced.Language(reader.Source()), []byte("math")) {
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
		mathNode := &blockMathNode{}
		mathNode.SetLines(node.Lines())
		parent.ReplaceChild(parent, node, mathNode)
	}
}

type mathRenderer struct{}

var _ renderer.NodeRenderer = mathRenderer{}

func (r mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(blockMathKind, r.renderBlock)
	reg.Register(inlineMathKind, r.renderInline)
}

func (r mathRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var b strings.Builder
	lines := node.(*blockMathNode).Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	_, _ = w.WriteString(renderLatex(b.String(), "block"))
	return ast.WalkContinue, nil
}

func (r mathRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(renderLatex(string(node.(*inlineMathNode).value), "inline"))
	return ast.WalkContinue, nil
}

// renderLatex converts a LaTeX expression to MathML. The converter panics on
// some malformed input, so failures are caught here and turned into a visible
// inline error marker instead of aborting the page render.
func renderLatex(src, display string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = mathErrorSpan(src)
		}
	}()
	out = latex2mathml.Convert(strings.TrimSpace(src), mathMLNamespace, display, 2)
	if strings.TrimSpace(out) == "" {
		out = mathErrorSpan(src)
	}
	return out
}

func mathErrorSpan(src string) string {
	return `<span class="math-error">` + stdhtml.EscapeString(strings.TrimSpace(src)) + `</span>`
}
