// Package corpus assembles the ordered, fully rendered document set that every
// output renderer consumes.
package corpus

import (
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/document"
)

// Corpus is the read-only result of an assembly: the archive entry first,
// then documents by timestamp descending.
type Corpus struct {
	Documents []*document.Document
	Authors   []config.Author
	Config    *config.Config
	// Assets are image paths, relative to the site root, referenced by any page.
	Assets []string
}

// Pages returns the documents without the archive entry.
func (c *Corpus) Pages() []*document.Document {
	out := make([]*document.Document, 0, len(c.Documents))
	for _, d := range c.Documents {
		if !d.IsArchive() {
			out = append(out, d)
		}
	}
	return out
}

// Drafts returns the unpublished documents.
func (c *Corpus) Drafts() []*document.Document {
	var out []*document.Document
	for _, d := range c.Documents {
		if !d.Published {
			out = append(out, d)
		}
	}
	return out
}

// WithTodo returns the documents carrying todo notes.
func (c *Corpus) WithTodo() []*document.Document {
	var out []*document.Document
	for _, d := range c.Documents {
		if len(d.Todo) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// Since returns the documents stamped strictly after t, excluding the root
// and archive entries.
func (c *Corpus) Since(t time.Time) []*document.Document {
	var out []*document.Document
	for _, d := range c.Documents {
		if d.IsRoot() || d.IsArchive() {
			continue
		}
		if d.Time.After(t) {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the document with slug.
func (c *Corpus) Find(slug string) (*document.Document, bool) {
	for _, d := range c.Documents {
		if d.Slug == slug {
			return d, true
		}
	}
	return nil, false
}

// Author resolves a nickname against the roster.
func (c *Corpus) Author(nickname string) (config.Author, bool) {
	for _, a := range c.Authors {
		if a.Nickname == nickname {
			return a, true
		}
	}
	return config.Author{}, false
}
