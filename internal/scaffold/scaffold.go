// Package scaffold creates the skeleton of a new site: configuration, two
// pages, one author bio and the directories the build expects.
package scaffold

import (
	"bytes"
	"embed"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

//go:embed skeleton
var skeleton embed.FS

// ErrRootExists is returned when the target directory is already present.
var ErrRootExists = errors.FileSystemError("path exists").Build()

// Options describes the site being created.
type Options struct {
	SiteName string
	URL      string
	Repo     string
	// Now stamps the generated pages; defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.SiteName == "" {
		o.SiteName = "My Site"
	}
	if o.URL == "" {
		o.URL = "https://example.com"
	}
	if o.Repo == "" {
		o.Repo = "https://github.com/example/site"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type file struct {
	rel  string
	body []byte
}

// New creates a site skeleton at root. It refuses to touch an existing path.
func New(root string, opts Options) error {
	opts.defaults()

	if _, err := os.Stat(root); err == nil {
		return errors.FileSystemError("path exists").
			WithContext("path", root).
			Build()
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to inspect path").
			Fatal().
			WithContext("path", root).
			Build()
	}

	files, err := skeletonFiles(opts)
	if err != nil {
		return err
	}

	for _, dir := range []string{"pages", config.AuthorsDir, config.ImagesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
				Fatal().
				WithContext("path", dir).
				Build()
		}
	}
	for _, f := range files {
		written, err := writeNewFile(root, f.rel, f.body)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write skeleton file").
				Fatal().
				WithContext("path", f.rel).
				Build()
		}
		opts.Logger.Debug("Created", logfields.Path(written))
	}
	opts.Logger.Info("Site created", logfields.Path(root), logfields.Count(len(files)))
	return nil
}

func skeletonFiles(opts Options) ([]file, error) {
	cfg, err := render("skeleton/config.yaml.tmpl", opts)
	if err != nil {
		return nil, err
	}
	gitignore, err := skeleton.ReadFile("skeleton/gitignore")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "missing skeleton file").Fatal().Build()
	}

	now := opts.Now().UTC().Truncate(time.Second)
	index, err := page("skeleton/index.md", opts, map[string]any{
		"title":     opts.SiteName,
		"timestamp": now.Format(document.TimestampLayout),
		"author":    "foobar",
	})
	if err != nil {
		return nil, err
	}
	// Timestamps must be unique across the corpus.
	about, err := page("skeleton/about.md", opts, map[string]any{
		"title":       "About",
		"timestamp":   now.Add(time.Second).Format(document.TimestampLayout),
		"description": "About " + opts.SiteName,
		"tags":        []string{"about"},
	})
	if err != nil {
		return nil, err
	}
	bio, err := page("skeleton/foobar.md", opts, map[string]any{"title": "Foo Bar"})
	if err != nil {
		return nil, err
	}

	return []file{
		{".gitignore", gitignore},
		{config.FileName, cfg},
		{"pages/index.md", index},
		{"pages/about.md", about},
		{config.AuthorsDir + "/foobar.md", bio},
	}, nil
}

func render(name string, opts Options) ([]byte, error) {
	tpl, err := template.New("").Option("missingkey=error").ParseFS(skeleton, name)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "parse skeleton template").Fatal().Build()
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, path.Base(name), opts); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "render skeleton template").Fatal().Build()
	}
	return buf.Bytes(), nil
}

func page(name string, opts Options, fields map[string]any) ([]byte, error) {
	body, err := render(name, opts)
	if err != nil {
		return nil, err
	}
	fm, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "serialize front matter").Fatal().Build()
	}
	return frontmatter.Join(fm, body, true), nil
}
