package site

import (
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

func (g *Generator) renderTagPages(tags tagIndex) error {
	for _, tag := range tags.sortedNames() {
		if !writableTag(tag) {
			g.logger.Error("Skipping tag that cannot be used as a file name", logfields.Tag(tag))
			continue
		}
		data := g.baseData(
			fmt.Sprintf("Articles tagged with '%s'", tag),
			fmt.Sprintf("Articles tagged with '%s'", tag),
			TagsDir+"/"+ToPath(tag),
		)
		data.Pages = tags[tag]
		out, err := g.templates.execute(tmplTag, data)
		if err != nil {
			return err
		}
		if err := g.writeArtifact("tag", TagsDir+"/"+ToPath(tag)+".html", out); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderTagIndex(tags tagIndex) error {
	data := g.baseData(g.cfg.Tags.Title, g.cfg.Tags.Description, TagsDir+"/")
	data.Keywords = []string{"tags"}
	data.Tags = tags.links()
	out, err := g.templates.execute(tmplTags, data)
	if err != nil {
		return err
	}
	return g.writeArtifact("tag_index", TagsDir+"/index.html", out)
}

// archivePages lists every published page except the root and the archive entry.
func archivePages(docs []*document.Document) []*document.Document {
	var out []*document.Document
	for _, d := range docs {
		if d.Listed() && !d.IsRoot() && !d.IsArchive() {
			out = append(out, d)
		}
	}
	return out
}

func (g *Generator) renderArchive() error {
	data := g.baseData(g.cfg.Archive.Title, g.cfg.Archive.Description, document.ArchiveSlug)
	data.Keywords = []string{"archive"}
	data.Pages = archivePages(g.corpus.Documents)
	out, err := g.templates.execute(tmplArchive, data)
	if err != nil {
		return err
	}
	return g.writeArtifact("archive", document.ArchiveSlug+".html", out)
}

func (g *Generator) renderSitemap() error {
	t, err := loadXMLTemplate(tmplSitemap)
	if err != nil {
		return err
	}
	var pages []*document.Document
	for _, d := range g.corpus.Documents {
		if d.Listed() {
			pages = append(pages, d)
		}
	}
	out, err := executeXML(t, map[string]any{"URL": g.url, "Pages": pages})
	if err != nil {
		return err
	}
	return g.writeArtifact("sitemap", "sitemap.xml", out)
}

// RobotsTxt returns the robots.txt body pointing crawlers at the sitemap.
func RobotsTxt(url string) string {
	return fmt.Sprintf("Sitemap: %s/sitemap.xml\n\nUser-agent: *\n", url)
}

func (g *Generator) renderRobots() error {
	return g.writeArtifact("robots", "robots.txt", []byte(RobotsTxt(g.url)))
}
