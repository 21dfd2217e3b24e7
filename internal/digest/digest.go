// Package digest renders the recent-changes email: every page stamped within
// the last N days, excluding the site root and the archive entry.
package digest

import (
	_ "embed"
	"html/template"
	"io"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/corpus"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

//go:embed templates/email.html
var emailTemplate string

var tmpl = template.Must(template.New("email").Parse(emailTemplate))

// ErrInvalidDays is returned for a negative look-back window.
var ErrInvalidDays = errors.ConfigError("days must not be negative").Build()

// Select returns the pages of c stamped after now minus days, in corpus order.
func Select(c *corpus.Corpus, days int, now time.Time) ([]*document.Document, error) {
	if days < 0 {
		return nil, errors.ConfigError("days must not be negative").
			WithContext("days", days).
			Build()
	}
	cutoff := now.UTC().AddDate(0, 0, -days)
	return c.Since(cutoff), nil
}

// Render writes the digest HTML for pages to w.
func Render(w io.Writer, cfg *config.Config, pages []*document.Document) error {
	data := map[string]any{
		"SiteName": cfg.SiteName,
		"URL":      strings.TrimSuffix(cfg.URL, "/"),
		"Pages":    pages,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to render digest").
			Fatal().
			Build()
	}
	return nil
}
