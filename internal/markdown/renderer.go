package markdown

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// HeadingClasses are the CSS classes put on rendered headings, by level.
var HeadingClasses = map[int]string{
	1: "title",
	2: "title is-4",
	3: "title is-5",
}

// RendererOptions configures a Renderer.
type RendererOptions struct {
	// Highlight enables server-side syntax highlighting of fenced code.
	Highlight bool
}

// Renderer converts Markdown to an HTML fragment: GitHub flavoured, raw HTML
// passed through, headings classed per HeadingClasses.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer.
func NewRenderer(opts RendererOptions) *Renderer {
	extensions := []goldmark.Extender{extension.GFM}
	if opts.Highlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingClassTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type headingClassTransformer struct{}

func (headingClassTransformer) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			if class, ok := HeadingClasses[h.Level]; ok {
				h.SetAttributeString("class", []byte(class))
			}
		}
		return gmast.WalkContinue, nil
	})
}
