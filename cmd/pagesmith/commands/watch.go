package commands

import (
	"context"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/git"
	"git.home.luguber.info/inful/pagesmith/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	OutDir   string        `name:"outdir" short:"o" help:"Output directory for the generated site" default:"_site"`
	Quiet    time.Duration `help:"Quiet period before a rebuild" default:"500ms"`
	MaxDelay time.Duration `name:"max-delay" help:"Longest a stream of changes can postpone a rebuild" default:"5s"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	rec, flush := root.recorder(g.Logger)
	sources := root.Sources()

	watcher, err := watch.New(watch.Options{
		Paths:       sources,
		QuietWindow: w.Quiet,
		MaxDelay:    w.MaxDelay,
		Fingerprint: func() (string, error) {
			return git.WorkdirHash(root.Root, sources)
		},
		Logger: g.Logger,
	}, func(ctx context.Context) error {
		_, err := RunWeb(ctx, root, w.OutDir, rec, g.Logger)
		flush()
		return err
	})
	if err != nil {
		return err
	}
	g.Logger.Info("Watching for changes; press Ctrl+C to stop")
	return watcher.Run(g.ctx())
}

// Sources lists the paths a build reads: pages, author bios, images and the
// configuration file.
func (c *CLI) Sources() []string {
	return []string{
		c.PagesDir(),
		filepath.Join(c.Root, config.AuthorsDir),
		filepath.Join(c.Root, config.ImagesDir),
		c.ConfigPath(),
	}
}
