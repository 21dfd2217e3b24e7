package site

import (
	"context"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/corpus"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

// Stage names, in execution order.
const (
	StagePages    = "pages"
	StageTags     = "tags"
	StageTagIndex = "tag_index"
	StageSitemap  = "sitemap"
	StageFeed     = "feed"
	StageArchive  = "archive"
	StageRobots   = "robots"
	StageAssets   = "assets"
)

// TagsDir is the output subdirectory for tag listings.
const TagsDir = "tags"

// MarkdownRenderer turns the configured footer into HTML.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}

// Generator writes a Corpus to an output directory.
type Generator struct {
	corpus   *corpus.Corpus
	cfg      *config.Config
	outDir   string
	root     string
	url      string
	renderer MarkdownRenderer
	recorder metrics.Recorder
	logger   *slog.Logger

	templates pageTemplates
	footer    htmltemplate.HTML
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRoot sets the site root that image assets and author pictures are copied from.
func WithRoot(root string) Option {
	return func(g *Generator) { g.root = root }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRenderer sets the Markdown renderer used for page footers.
func WithRenderer(r MarkdownRenderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// NewGenerator creates a Generator writing c into outDir.
func NewGenerator(c *corpus.Corpus, outDir string, opts ...Option) *Generator {
	g := &Generator{
		corpus:   c,
		cfg:      c.Config,
		outDir:   filepath.Clean(outDir),
		root:     ".",
		url:      strings.TrimSuffix(c.Config.URL, "/"),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.renderer == nil {
		g.renderer = markdown.NewRenderer(markdown.RendererOptions{Highlight: g.cfg.Highlight})
	}
	return g
}

type stage struct {
	name string
	fn   func() error
}

// Generate writes every artifact. It stops at the first fatal failure; a feed
// validation failure is logged and returned once the other stages are done.
func (g *Generator) Generate(ctx context.Context) error {
	tmpls, err := loadPageTemplates()
	if err != nil {
		return err
	}
	g.templates = tmpls

	footer, err := g.renderFooter("")
	if err != nil {
		return err
	}
	g.footer = footer

	if err := g.mkdir(filepath.Join(g.outDir, TagsDir)); err != nil {
		return err
	}

	tags := collectTags(g.corpus.Documents)
	stages := []stage{
		{StagePages, g.renderPages},
		{StageTags, func() error { return g.renderTagPages(tags) }},
		{StageTagIndex, func() error { return g.renderTagIndex(tags) }},
		{StageSitemap, g.renderSitemap},
		{StageFeed, g.renderFeed},
		{StageArchive, g.renderArchive},
		{StageRobots, g.renderRobots},
		{StageAssets, g.copyAssets},
	}

	var feedErr error
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := st.fn()
		g.recorder.ObserveStageDuration(st.name, time.Since(start))
		switch {
		case err == nil:
			g.recorder.IncStageResult(st.name, metrics.ResultSuccess)
		case errors.HasCategory(err, errors.CategoryFeed):
			g.recorder.IncStageResult(st.name, metrics.ResultWarning)
			g.logger.Error("Feed validation failed", logfields.Stage(st.name), logfields.Error(err))
			feedErr = err
		default:
			g.recorder.IncStageResult(st.name, metrics.ResultFatal)
			return err
		}
	}

	g.logger.Info("Site generated",
		logfields.Output(g.outDir),
		logfields.Count(len(g.corpus.Documents)))
	return feedErr
}

// pageData is the value every HTML template receives.
type pageData struct {
	Title       string
	Description string
	Keywords    []string
	PagePath    string
	URL         string
	SiteName    string
	Config      *config.Config
	Footer      htmltemplate.HTML
	Content     htmltemplate.HTML
	Page        *document.Document
	Author      *config.Author
	Pages       []*document.Document
	Tags        []tagLink
}

func (g *Generator) baseData(title, description, pagePath string) pageData {
	return pageData{
		Title:       title,
		Description: description,
		PagePath:    pagePath,
		URL:         g.url,
		SiteName:    g.cfg.SiteName,
		Config:      g.cfg,
		Footer:      g.footer,
	}
}

// renderFooter renders the configured footer, adding a link to the page source
// when link_to_source is set and filename is not empty.
func (g *Generator) renderFooter(filename string) (htmltemplate.HTML, error) {
	src := g.cfg.Footer
	if g.cfg.LinkToSource && filename != "" {
		src += " [source](" + g.cfg.Repo + "/blob/" + g.cfg.Branch + "/pages/" + filename + ")"
	}
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	html, err := g.renderer.Render(src)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to render footer").
			Fatal().
			Build()
	}
	// #nosec G203 -- footer comes from the site configuration.
	return htmltemplate.HTML(html), nil
}

func (g *Generator) mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}
	return nil
}

// writeArtifact writes data to rel under the output directory and counts it.
func (g *Generator) writeArtifact(kind, rel string, data []byte) error {
	path := filepath.Join(g.outDir, filepath.FromSlash(rel))
	if err := g.mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	// #nosec G306 -- generated site content is public
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write artifact").
			Fatal().
			WithContext("path", path).
			Build()
	}
	g.recorder.IncArtifact(kind)
	g.logger.Debug("Wrote artifact", logfields.Path(path))
	return nil
}
