package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/corpus"
	"git.home.luguber.info/inful/pagesmith/internal/events"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// WebCmd implements the 'web' command.
type WebCmd struct {
	OutDir string `name:"outdir" short:"o" help:"Output directory for the generated site" default:"_site"`
}

func (w *WebCmd) Run(g *Global, root *CLI) error {
	rec, flush := root.recorder(g.Logger)
	defer flush()
	_, err := RunWeb(g.ctx(), root, w.OutDir, rec, g.Logger)
	return err
}

// RunWeb builds the site once. When the feed fails validation every other
// artifact is still written, the outcome is recorded as a warning and the
// feed error is returned. The returned corpus is nil when the build stopped
// before the corpus was assembled.
func RunWeb(ctx context.Context, root *CLI, outDir string, rec metrics.Recorder, logger *slog.Logger) (*corpus.Corpus, error) {
	start := time.Now()
	logger.Info("Starting site build", logfields.Output(outDir))

	cfg, err := root.LoadConfig(logger)
	if err != nil {
		return nil, err
	}

	c, err := build(ctx, root, cfg, outDir, rec, logger)
	outcome := metrics.BuildOutcomeSuccess
	switch {
	case errors.HasCategory(err, errors.CategoryFeed):
		outcome = metrics.BuildOutcomeWarning
		logger.Warn("Feed failed validation and was not written", logfields.Error(err))
	case err != nil:
		outcome = metrics.BuildOutcomeFailed
	}
	elapsed := time.Since(start)
	rec.ObserveBuildDuration(elapsed)
	rec.IncBuildOutcome(outcome)

	documents := 0
	if c != nil {
		documents = len(c.Documents)
	}
	publish(ctx, cfg, events.NewBuildCompleted(cfg.SiteName, cfg.URL, outDir, documents, string(outcome), elapsed, err), logger)

	if err != nil {
		return c, err
	}
	logger.Info("Site build finished",
		logfields.Output(outDir),
		logfields.Count(documents),
		logfields.Duration(elapsed))
	return c, nil
}

func build(ctx context.Context, root *CLI, cfg *config.Config, outDir string, rec metrics.Recorder, logger *slog.Logger) (*corpus.Corpus, error) {
	asm := corpus.NewAssembler(cfg,
		corpus.WithRoot(root.Root),
		corpus.WithRecorder(rec),
		corpus.WithLogger(logger))
	c, err := asm.Assemble(ctx, root.PagesDir())
	if err != nil {
		return nil, err
	}
	gen := site.NewGenerator(c, outDir,
		site.WithRoot(root.Root),
		site.WithRecorder(rec),
		site.WithLogger(logger),
		site.WithRenderer(asm.Renderer()))
	return c, gen.Generate(ctx)
}

// publish sends the build event. Broker failures never fail the build.
func publish(ctx context.Context, cfg *config.Config, ev events.BuildCompleted, logger *slog.Logger) {
	pub, err := events.New(cfg.Events, logger)
	if err != nil {
		logger.Warn("Build event not published", logfields.Error(err))
		return
	}
	defer pub.Close()
	if err := pub.PublishBuild(ctx, ev); err != nil {
		logger.Warn("Build event not published", logfields.Error(err))
	}
}
