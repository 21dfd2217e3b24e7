package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// AuthorsDir is the directory, relative to the site root, holding author bios.
const AuthorsDir = "authors"

// ImagesDir is the directory, relative to the site root, holding author pictures.
const ImagesDir = "images"

// MarkdownRenderer turns Markdown into HTML.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}

// WithBios returns a copy of c whose authors carry the HTML rendered from
// authors/<nickname>.md under root. A missing bio is an error.
func (c *Config) WithBios(root string, r MarkdownRenderer) (*Config, error) {
	out := *c
	out.Authors = slices.Clone(c.Authors)
	for i, a := range out.Authors {
		path := filepath.Join(root, AuthorsDir, a.Nickname+".md")
		// #nosec G304 -- nickname comes from the validated roster.
		raw, err := os.ReadFile(path)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.NotFoundError("author bio not found").
					WithContext("path", path).
					WithContext("nickname", a.Nickname).
					Build()
			}
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read author bio").
				Fatal().
				WithContext("path", path).
				Build()
		}
		_, body, _, err := frontmatter.Split(raw)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategorySchema, "invalid front matter").
				Fatal().
				WithContext("path", path).
				Build()
		}
		html, err := r.Render(string(body))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "failed to render author bio").
				Fatal().
				WithContext("path", path).
				Build()
		}
		out.Authors[i].Text = html
	}
	return &out, nil
}
