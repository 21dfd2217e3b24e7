package site

import (
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/corpus"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// OutputName returns the HTML file name of d: its source name with .html.
func OutputName(d *document.Document) string {
	name := d.Filename
	if name == "" {
		name = d.Slug + ".md"
	}
	return strings.TrimSuffix(name, ".md") + ".html"
}

// RedirectStub is the whole body written for a page that only redirects.
func RedirectStub(target string) string {
	return fmt.Sprintf("<meta http-equiv=\"refresh\" content=\"0; url=%s\" />\n", html.EscapeString(target))
}

func (g *Generator) renderPages() error {
	for _, d := range g.corpus.Documents {
		if d.IsArchive() {
			continue
		}
		if d.Redirect != "" {
			g.logger.Debug("Rendering redirect", logfields.Slug(d.Slug), logfields.Path(d.Redirect))
			if err := g.writeArtifact("redirect", OutputName(d), []byte(RedirectStub(d.Redirect))); err != nil {
				return err
			}
			continue
		}
		out, err := g.renderPage(d)
		if err != nil {
			return err
		}
		if err := g.writeArtifact("page", OutputName(d), out); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderPage(d *document.Document) ([]byte, error) {
	if err := corpus.CheckAuthor(d, g.cfg); err != nil {
		return nil, err
	}
	var author *config.Author
	if d.Author != "" {
		a, _ := g.corpus.Author(d.Author)
		author = &a
	}

	footer, err := g.renderFooter(d.Filename)
	if err != nil {
		return nil, err
	}

	data := g.baseData(d.Title, d.Description, d.URLPath())
	data.Keywords = Keywords(d.Tags)
	data.Footer = footer
	// #nosec G203 -- page bodies are rendered from the site's own Markdown.
	data.Content = htmltemplate.HTML(d.Content)
	data.Page = d
	data.Author = author
	return g.templates.execute(tmplPage, data)
}
