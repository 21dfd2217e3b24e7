package corpus

import (
	"cmp"
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/linkgraph"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/macro"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

var (
	// ErrDuplicateSlug is returned when two documents map to the same slug.
	ErrDuplicateSlug = errors.ContentError("duplicate slug").Build()
	// ErrDuplicateTimestamp is returned when two documents share a timestamp.
	ErrDuplicateTimestamp = errors.ContentError("duplicate timestamp").Build()
	// ErrUnknownAuthor is returned when a document names an author missing from the roster.
	ErrUnknownAuthor = errors.ContentError("unknown author").Build()
)

// Stage names used for logging and metrics.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageExpand   = "expand"
	StageRender   = "render"
	StageLink     = "link"
)

// Assembler builds a Corpus from a pages directory.
type Assembler struct {
	cfg      *config.Config
	root     string
	renderer *markdown.Renderer
	expander *macro.Expander
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	bios     bool
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithRoot sets the site root that include paths and author bios resolve against.
func WithRoot(root string) Option {
	return func(a *Assembler) { a.root = root }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Assembler) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithClock overrides the build time used for an empty corpus.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithoutBios skips loading authors/<nickname>.md. Commands that only list
// documents use it.
func WithoutBios() Option {
	return func(a *Assembler) { a.bios = false }
}

// NewAssembler creates an Assembler for cfg.
func NewAssembler(cfg *config.Config, opts ...Option) *Assembler {
	a := &Assembler{
		cfg:      cfg,
		root:     ".",
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
		bios:     true,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.renderer = markdown.NewRenderer(markdown.RendererOptions{Highlight: cfg.Highlight})
	a.expander = macro.NewExpander(macro.Options{
		Root:   a.root,
		Repo:   cfg.Repo,
		Branch: cfg.Branch,
	})
	return a
}

// Renderer returns the Markdown renderer the assembler uses.
func (a *Assembler) Renderer() *markdown.Renderer {
	return a.renderer
}

// Assemble loads every .md file directly inside pagesDir and returns the
// rendered, linked corpus. The first failure aborts the whole assembly.
func (a *Assembler) Assemble(ctx context.Context, pagesDir string) (*Corpus, error) {
	var docs []*document.Document
	err := metrics.TimeStage(a.recorder, StageLoad, func() error {
		var err error
		docs, err = a.load(pagesDir)
		return err
	})
	if err != nil {
		return nil, err
	}

	cfg := a.cfg
	err = metrics.TimeStage(a.recorder, StageValidate, func() error {
		if err := validate(docs, cfg); err != nil {
			return err
		}
		if a.bios && len(cfg.Authors) > 0 {
			withBios, err := cfg.WithBios(a.root, a.renderer)
			if err != nil {
				return err
			}
			cfg = withBios
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs = a.order(docs)
	a.logger.Debug("Corpus ordered", logfields.Count(len(docs)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = metrics.TimeStage(a.recorder, StageExpand, func() error {
		docs, err = a.expand(docs)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var assets []string
	err = metrics.TimeStage(a.recorder, StageRender, func() error {
		docs, assets, err = a.render(docs)
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = metrics.TimeStage(a.recorder, StageLink, func() error {
		docs = linkgraph.Build(docs)
		return nil
	})

	a.recorder.SetDocuments(len(docs))
	return &Corpus{
		Documents: docs,
		Authors:   cfg.Authors,
		Config:    cfg,
		Assets:    assets,
	}, nil
}

// LoadDocuments enumerates and loads pagesDir, enforcing the corpus
// invariants, without expanding or rendering anything.
func (a *Assembler) LoadDocuments(pagesDir string) (*Corpus, error) {
	docs, err := a.load(pagesDir)
	if err != nil {
		return nil, err
	}
	if err := validate(docs, a.cfg); err != nil {
		return nil, err
	}
	return &Corpus{Documents: a.order(docs), Authors: a.cfg.Authors, Config: a.cfg}, nil
}

func (a *Assembler) load(pagesDir string) ([]*document.Document, error) {
	entries, err := os.ReadDir(pagesDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("pages directory not found").
				WithContext("path", pagesDir).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read pages directory").
			Fatal().
			WithContext("path", pagesDir).
			Build()
	}

	docs := make([]*document.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			a.logger.Debug("Skipping non-page entry", logfields.Path(entry.Name()))
			continue
		}
		path := filepath.Join(pagesDir, entry.Name())
		doc, err := document.Load(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("Loaded document", logfields.Path(path), logfields.Slug(doc.Slug))
		docs = append(docs, doc)
	}
	return docs, nil
}

func validate(docs []*document.Document, cfg *config.Config) error {
	slugs := make(map[string]*document.Document, len(docs))
	stamps := make(map[string]*document.Document, len(docs))
	for _, d := range docs {
		if d.IsArchive() {
			return errors.ContentError("duplicate slug").
				WithContext("slug", d.Slug).
				WithContext("path", d.Path).
				Build()
		}
		if prev, dup := slugs[d.Slug]; dup {
			return errors.ContentError("duplicate slug").
				WithContext("slug", d.Slug).
				WithContext("path", d.Path).
				WithContext("other", prev.Path).
				Build()
		}
		slugs[d.Slug] = d

		if prev, dup := stamps[d.Timestamp]; dup {
			return errors.ContentError("duplicate timestamp").
				WithContext("timestamp", d.Timestamp).
				WithContext("path", d.Path).
				WithContext("other", prev.Path).
				Build()
		}
		stamps[d.Timestamp] = d

		if err := CheckAuthor(d, cfg); err != nil {
			return err
		}
	}
	return nil
}

// CheckAuthor fails when d names an author that is not in the roster.
func CheckAuthor(d *document.Document, cfg *config.Config) error {
	if d.Author == "" {
		return nil
	}
	if _, ok := cfg.Author(d.Author); ok {
		return nil
	}
	return errors.ContentError("unknown author").
		WithContext("nickname", d.Author).
		WithContext("filename", d.Filename).
		Build()
}

// order sorts by timestamp descending and prepends the archive entry, stamped
// with the newest timestamp or the build time for an empty corpus.
func (a *Assembler) order(docs []*document.Document) []*document.Document {
	sorted := slices.Clone(docs)
	slices.SortStableFunc(sorted, func(x, y *document.Document) int {
		return cmp.Compare(y.Timestamp, x.Timestamp)
	})

	stamp := a.now().UTC().Truncate(time.Second)
	if len(sorted) > 0 {
		stamp = sorted[0].Time
	}
	archive := document.NewArchive(a.cfg.Archive.Title, stamp)
	archive.Description = a.cfg.Archive.Description

	return append([]*document.Document{archive}, sorted...)
}

func (a *Assembler) expand(docs []*document.Document) ([]*document.Document, error) {
	out := make([]*document.Document, len(docs))
	for i, d := range docs {
		content, err := a.expander.Expand(d, docs)
		if err != nil {
			return nil, err
		}
		expanded := d.WithContent(content)
		if err := macro.CheckUnexpanded(expanded); err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

func (a *Assembler) render(docs []*document.Document) ([]*document.Document, []string, error) {
	out := make([]*document.Document, len(docs))
	seen := make(map[string]struct{})
	var assets []string
	for i, d := range docs {
		images, err := markdown.LocalImages([]byte(d.Content))
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryInternal, "failed to scan images").
				Fatal().
				WithContext("path", d.Path).
				Build()
		}
		html, err := a.renderer.Render(d.Content)
		if err != nil {
			return nil, nil, errors.WrapError(err, errors.CategoryInternal, "failed to render markdown").
				Fatal().
				WithContext("path", d.Path).
				Build()
		}
		rendered := d.WithContent(html)
		rendered.Assets = images
		out[i] = rendered

		for _, img := range images {
			if _, dup := seen[img]; !dup {
				seen[img] = struct{}{}
				assets = append(assets, img)
			}
		}
	}
	slices.SortFunc(assets, strings.Compare)
	return out, assets, nil
}
