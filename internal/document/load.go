package document

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

var (
	// ErrNotFound is returned when the source file does not exist.
	ErrNotFound = errors.NotFoundError("source not found").Build()
	// ErrMetadataParse is returned for front matter that is malformed or carries unknown fields.
	ErrMetadataParse = errors.SchemaError("invalid front matter").Build()
	// ErrInvalidTimestamp is returned when timestamp is not YYYY-MM-DDTHH:MM:SS.
	ErrInvalidTimestamp = errors.SchemaError("invalid timestamp").Build()
	// ErrMissingTitle is returned when the title is empty after parsing.
	ErrMissingTitle = errors.ContentError("missing title").Build()
	// ErrEmptyTag is returned when any tag is the empty string.
	ErrEmptyTag = errors.ContentError("empty tag").Build()
)

// Load reads the Markdown file at path and returns its Document with Content
// holding the raw body.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path comes from enumerating the configured pages directory.
	raw, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("source not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return Parse(path, raw)
}

// Parse builds a Document from file content; path is only used for the slug and messages.
func Parse(path string, raw []byte) (*Document, error) {
	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySchema, "invalid front matter").
			Fatal().
			WithContext("path", path).
			Build()
	}

	meta := DefaultMeta()
	if err := frontmatter.Decode(fm, &meta); err != nil {
		b := errors.WrapError(err, errors.CategorySchema, "invalid front matter").
			Fatal().
			WithContext("path", path)
		if field, ok := frontmatter.UnknownField(err); ok {
			b = b.WithContext("field", field)
		}
		return nil, b.Build()
	}

	if strings.TrimSpace(meta.Title) == "" {
		return nil, errors.ContentError("missing title").WithContext("path", path).Build()
	}

	ts, err := time.Parse(TimestampLayout, meta.Timestamp)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySchema, "invalid timestamp").
			Fatal().
			WithContext("path", path).
			WithContext("field", "timestamp").
			Build()
	}

	for _, tag := range meta.Tags {
		if tag == "" {
			return nil, errors.ContentError("empty tag").WithContext("path", path).Build()
		}
	}

	filename := filepath.Base(path)
	return &Document{
		Meta:     meta,
		Slug:     SlugFor(filename),
		Filename: filename,
		Path:     path,
		Time:     ts,
		Content:  string(body),
	}, nil
}

// SlugFor derives the slug from a file name: the extension is dropped and
// "index" maps to the site root "".
func SlugFor(filename string) string {
	slug := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if slug == "index" {
		return ""
	}
	return slug
}
