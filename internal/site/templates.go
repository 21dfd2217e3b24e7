package site

import (
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

//go:embed templates/*.html templates/*.xml templates/partials/*.html
var embeddedTemplates embed.FS

const (
	tmplPage    = "page.html"
	tmplTag     = "tag.html"
	tmplTags    = "tags.html"
	tmplArchive = "archive.html"
	tmplSitemap = "sitemap.xml"
	tmplAtom    = "atom.xml"
)

func dateOf(t time.Time) string {
	return t.Format(time.DateOnly)
}

func htmlFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"join":    strings.Join,
		"date":    dateOf,
		"tagpath": func(tag string) string { return ToPath(lowerTag(tag)) },
		// #nosec G203 -- author bios are rendered from the site's own Markdown.
		"safe": func(s string) htmltemplate.HTML { return htmltemplate.HTML(s) },
	}
}

// pageTemplates holds one layout-backed template per HTML page kind.
type pageTemplates map[string]*htmltemplate.Template

func loadPageTemplates() (pageTemplates, error) {
	out := make(pageTemplates)
	for _, name := range []string{tmplPage, tmplTag, tmplTags, tmplArchive} {
		t, err := htmltemplate.New(name).Funcs(htmlFuncs()).ParseFS(embeddedTemplates,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse template").
				Fatal().
				WithContext("template", name).
				Build()
		}
		out[name] = t
	}
	return out, nil
}

func loadXMLTemplate(name string) (*texttemplate.Template, error) {
	t, err := texttemplate.New(name).Funcs(texttemplate.FuncMap{"date": dateOf}).
		ParseFS(embeddedTemplates, "templates/"+name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse template").
			Fatal().
			WithContext("template", name).
			Build()
	}
	return t, nil
}

func (t pageTemplates) execute(name string, data any) ([]byte, error) {
	var b strings.Builder
	if err := t[name].ExecuteTemplate(&b, "layout", data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to execute template").
			Fatal().
			WithContext("template", name).
			Build()
	}
	return []byte(b.String()), nil
}

func executeXML(t *texttemplate.Template, data any) ([]byte, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to execute template").
			Fatal().
			WithContext("template", t.Name()).
			Build()
	}
	return []byte(b.String()), nil
}
