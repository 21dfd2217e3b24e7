package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Paragraph(t *testing.T) {
	out, err := NewRenderer(RendererOptions{}).Render("Some Text.\n")
	require.NoError(t, err)
	require.Equal(t, "<p>Some Text.</p>\n", out)
}

func TestRender_HeadingClasses(t *testing.T) {
	out, err := NewRenderer(RendererOptions{}).Render("# One\n\n## Two\n\n### Three\n\n#### Four\n")
	require.NoError(t, err)
	require.Equal(t, ""+
		"<h1 class=\"title\">One</h1>\n"+
		"<h2 class=\"title is-4\">Two</h2>\n"+
		"<h3 class=\"title is-5\">Three</h3>\n"+
		"<h4>Four</h4>\n", out)
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	src := `<iframe width="560" height="315" src="https://www.youtube.com/embed/x"></iframe>` + "\n"
	out, err := NewRenderer(RendererOptions{}).Render(src)
	require.NoError(t, err)
	require.Contains(t, out, `<iframe width="560"`)
}

func TestRender_GFMTable(t *testing.T) {
	out, err := NewRenderer(RendererOptions{}).Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>1</td>")
}

func TestRender_FencedCode(t *testing.T) {
	src := "```rust\nfn main() {}\n```\n"

	plain, err := NewRenderer(RendererOptions{}).Render(src)
	require.NoError(t, err)
	require.Contains(t, plain, `<code class="language-rust">`)

	highlighted, err := NewRenderer(RendererOptions{Highlight: true}).Render(src)
	require.NoError(t, err)
	require.Contains(t, highlighted, `class="chroma"`)
}
