package site

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// ErrFeedValidation is returned when the generated Atom feed does not parse back.
var ErrFeedValidation = errors.FeedError("feed validation failed").Build()

type feedEntry struct {
	Title   string
	Link    string
	ID      string
	Updated string
	Author  string
	Summary string
	Content string
}

// EntryID derives a stable Atom id from a page URL.
func EntryID(link string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func atomTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// feedPages returns the listed pages, newest first, capped at limit when limit > 0.
func feedPages(docs []*document.Document, limit int) []*document.Document {
	var out []*document.Document
	for _, d := range docs {
		if d.Listed() && !d.IsArchive() {
			out = append(out, d)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (g *Generator) renderFeed() error {
	t, err := loadXMLTemplate(tmplAtom)
	if err != nil {
		return err
	}

	pages := feedPages(g.corpus.Documents, g.cfg.Atom.Max)
	entries := make([]feedEntry, 0, len(pages))
	for _, d := range pages {
		link := g.url + "/" + d.Slug
		e := feedEntry{
			Title:   d.Title,
			Link:    link,
			ID:      EntryID(link),
			Updated: atomTime(d.Time),
			Summary: d.Description,
			Content: d.Content,
		}
		if a, ok := g.corpus.Author(d.Author); ok {
			e.Author = a.Name
		}
		entries = append(entries, e)
	}

	updated := time.Now()
	if len(pages) > 0 {
		updated = pages[0].Time
	} else if len(g.corpus.Documents) > 0 {
		updated = g.corpus.Documents[0].Time
	}
	var feedAuthor string
	if g.cfg.From != nil {
		feedAuthor = g.cfg.From.Name
	}

	out, err := executeXML(t, map[string]any{
		"SiteName": g.cfg.SiteName,
		"URL":      g.url,
		"Updated":  atomTime(updated),
		"Author":   feedAuthor,
		"Entries":  entries,
	})
	if err != nil {
		return err
	}
	if err := ValidateFeed(out, len(entries)); err != nil {
		return err
	}
	return g.writeArtifact("feed", "atom.xml", out)
}

// ValidateFeed parses data as a feed and checks it holds want entries.
func ValidateFeed(data []byte, want int) error {
	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return errors.FeedError("feed validation failed").
			WithCause(err).
			WithContext("path", "atom.xml").
			Build()
	}
	if feed.FeedType != "atom" || len(feed.Items) != want {
		return errors.FeedError("feed validation failed").
			WithContext("path", "atom.xml").
			WithContext("type", feed.FeedType).
			WithContext("entries", len(feed.Items)).
			Build()
	}
	return nil
}
