package linkgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/document"
)

func page(slug, title, html string) *document.Document {
	return &document.Document{Meta: document.Meta{Title: title}, Slug: slug, Content: html}
}

func TestExtract_SkipsExternal(t *testing.T) {
	d := page("a", "Alpha", `<p>See <a href="/b">the <em>Bravo</em> page</a>, <a href="https://example.com">ext</a>, <a href="http://x.org/">x</a> and <a href="c">C</a>.</p>`)

	links := Extract(d)
	require.Equal(t, []document.Link{
		{FromTitle: "Alpha", FromPath: "a", ToTitle: "the Bravo page", ToPath: "/b"},
		{FromTitle: "Alpha", FromPath: "a", ToTitle: "C", ToPath: "c"},
	}, links)
}

func TestExtract_NoAnchors(t *testing.T) {
	require.Empty(t, Extract(page("a", "A", "<p>Some Text.</p>\n")))
	require.Empty(t, Extract(page("a", "A", "")))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"/b":         "/b",
		"b":          "/b",
		"/b/":        "/b",
		"/b#section": "/b",
		"/b?x=1":     "/b",
		"/":          "/",
		"./b":        "/b",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), in)
	}
}

func TestBuild_Backlinks(t *testing.T) {
	docs := []*document.Document{
		page("", "Home", `<a href="/target">t</a>`),
		page("target", "Target", `<a href="/">home</a>`),
		page("m", "Mike", `<a href="/target#x">t</a>`),
		page("z", "Zulu", `<a href="https://example.com/target">t</a><a href="target">t</a>`),
		page("b", "Bravo", `<a href="/target">t</a>`),
	}

	out := Build(docs)
	require.Len(t, out, len(docs))

	var from []string
	for _, l := range out[1].Backlinks {
		from = append(from, l.FromTitle)
	}
	require.Equal(t, []string{"Zulu", "Mike", "Home", "Bravo"}, from)
	require.Equal(t, "z", out[1].Backlinks[0].FromPath)

	require.Len(t, out[0].Backlinks, 1)
	require.Equal(t, "Target", out[0].Backlinks[0].FromTitle)
	require.Empty(t, out[2].Backlinks)

	for _, d := range docs {
		require.Nil(t, d.Backlinks, "input must not be mutated")
	}
}
