package document

import (
	"slices"
	"time"
)

// TimestampLayout is the only accepted front matter timestamp format.
const TimestampLayout = "2006-01-02T15:04:05"

// ArchiveSlug identifies the synthetic archive entry.
const ArchiveSlug = "archive"

// Meta holds the typed front matter fields. Unknown fields are rejected at load.
type Meta struct {
	Title       string   `yaml:"title"`
	Timestamp   string   `yaml:"timestamp"`
	Description string   `yaml:"description"`
	Todo        []string `yaml:"todo"`
	Tags        []string `yaml:"tags"`
	Author      string   `yaml:"author"`
	Redirect    string   `yaml:"redirect"`
	Published   bool     `yaml:"published"`
	ShowRelated bool     `yaml:"show_related"`
}

// DefaultMeta returns the values a document gets when its front matter is silent.
func DefaultMeta() Meta {
	return Meta{Published: true, ShowRelated: true}
}

// Link is one anchor from a rendered document to another page of the site.
type Link struct {
	FromTitle string
	FromPath  string
	ToTitle   string
	ToPath    string
}

// Document is one page of the corpus.
//
// Content starts as the Markdown body and is replaced by each pipeline stage.
// Stages work on clones so a corpus snapshot is never mutated.
type Document struct {
	Meta

	Slug     string
	Filename string
	Path     string
	Time     time.Time

	Content   string
	Backlinks []Link
	Assets    []string
}

// URLPath returns the site-relative path of the page ("" for the root).
func (d *Document) URLPath() string {
	return d.Slug
}

// IsRoot reports whether d is the site index page.
func (d *Document) IsRoot() bool {
	return d.Slug == ""
}

// IsArchive reports whether d is the synthetic archive entry.
func (d *Document) IsArchive() bool {
	return d.Slug == ArchiveSlug
}

// Listed reports whether d may appear in tag pages, the sitemap and the feed.
func (d *Document) Listed() bool {
	return d.Published && d.Redirect == ""
}

// HasTag reports whether d carries exactly tag.
func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Todo = slices.Clone(d.Todo)
	c.Tags = slices.Clone(d.Tags)
	c.Backlinks = slices.Clone(d.Backlinks)
	c.Assets = slices.Clone(d.Assets)
	return &c
}

// WithContent returns a clone of d whose Content is replaced.
func (d *Document) WithContent(content string) *Document {
	c := d.Clone()
	c.Content = content
	return c
}

// NewArchive builds the synthetic archive entry stamped with t.
func NewArchive(title string, t time.Time) *Document {
	meta := DefaultMeta()
	meta.Title = title
	meta.Timestamp = t.Format(TimestampLayout)
	return &Document{
		Meta:     meta,
		Slug:     ArchiveSlug,
		Filename: ArchiveSlug + ".md",
		Time:     t,
	}
}
