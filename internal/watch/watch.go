// Package watch rebuilds a site whenever its sources change.
//
// File system events are coalesced: a build starts once the tree has been
// quiet for QuietWindow, or at the latest MaxDelay after the first change of a
// burst. Builds run one at a time on the watcher goroutine. A failed build is
// logged and the watcher keeps going.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// BuildFunc performs one full rebuild.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively; missing paths are ignored.
	Paths []string
	// QuietWindow is how long the tree must stay unchanged before a build.
	QuietWindow time.Duration
	// MaxDelay caps how long a burst of changes can postpone a build.
	MaxDelay time.Duration
	// Fingerprint, when set, is compared before each build; an unchanged
	// value skips the build.
	Fingerprint func() (string, error)
	Logger      *slog.Logger
}

// Watcher watches source paths and triggers builds.
type Watcher struct {
	opts    Options
	build   BuildFunc
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	lastFP  string
	builds  int
	skipped int
}

// New creates a Watcher. Call Run to start it.
func New(opts Options, build BuildFunc) (*Watcher, error) {
	if build == nil {
		return nil, errors.InternalError("build function is required").Build()
	}
	if len(opts.Paths) == 0 {
		return nil, errors.ConfigError("nothing to watch").Build()
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Fatal().Build()
	}
	w := &Watcher{opts: opts, build: build, fsw: fsw, logger: opts.Logger}
	for _, p := range opts.Paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add registers p and, for directories, every non-hidden subdirectory.
// Files are watched through their parent directory, which survives editors
// that replace files on save.
func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug("Watch path missing", logfields.Path(p))
			return nil
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat watch path").
			Fatal().
			WithContext("path", p).
			Build()
	}
	if !info.IsDir() {
		return w.watchDir(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && ignored(path) {
			return filepath.SkipDir
		}
		return w.watchDir(path)
	})
}

func (w *Watcher) watchDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}
	return nil
}

// ignored filters editor droppings and hidden files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp")
}

// Run builds once, then rebuilds on changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	w.runBuild(ctx, "initial")

	quiet := newStoppedTimer()
	maxWait := newStoppedTimer()
	var quietC, maxC <-chan time.Time
	pending := false

	fire := func(reason string) {
		stopTimer(quiet)
		stopTimer(maxWait)
		quietC, maxC = nil, nil
		pending = false
		w.runBuild(ctx, reason)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.add(ev.Name)
				}
			}
			resetTimer(quiet, w.opts.QuietWindow)
			quietC = quiet.C
			if !pending {
				pending = true
				resetTimer(maxWait, w.opts.MaxDelay)
				maxC = maxWait.C
			}
		case <-quietC:
			fire("quiet")
		case <-maxC:
			fire("max_delay")
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ignored(ev.Name) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) runBuild(ctx context.Context, reason string) {
	if w.opts.Fingerprint != nil {
		fp, err := w.opts.Fingerprint()
		if err != nil {
			w.logger.Warn("Fingerprint failed; building anyway", logfields.Error(err))
		} else if fp == w.lastFP {
			w.skipped++
			w.logger.Debug("Sources unchanged; skipping build", slog.String("reason", reason))
			return
		} else {
			w.lastFP = fp
		}
	}

	start := time.Now()
	w.builds++
	if err := w.build(ctx); err != nil {
		w.logger.Error("Build failed", slog.String("reason", reason), logfields.Error(err))
		// Force the next change to rebuild even if it restores the old content.
		w.lastFP = ""
		return
	}
	w.logger.Info("Build finished", slog.String("reason", reason), logfields.Duration(time.Since(start)))
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	stopTimer(t)
	return t
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}
