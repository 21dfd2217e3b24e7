package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/git"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

// Global is shared with every subcommand.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	Out     io.Writer
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// CLI definition & global flags.
type CLI struct {
	Root        string           `help:"Site root directory" default:"." type:"path"`
	Pages       string           `help:"Pages directory, relative to the root" default:"pages"`
	Config      string           `short:"c" help:"Configuration file path (defaults to <root>/config.yaml)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path after the command"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Web      WebCmd      `cmd:"" help:"Build the site"`
	Drafts   DraftsCmd   `cmd:"" help:"List unpublished pages"`
	Todo     TodoCmd     `cmd:"" help:"List the todo notes of every page"`
	Recent   RecentCmd   `cmd:"" help:"Print an HTML digest of recently stamped pages"`
	New      NewCmd      `cmd:"" help:"Create a new site skeleton"`
	Sendmail SendmailCmd `cmd:"" help:"Mail one page to a list of recipients"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild the site whenever its sources change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// PagesDir returns the pages directory resolved against the root.
func (c *CLI) PagesDir() string {
	if filepath.IsAbs(c.Pages) {
		return c.Pages
	}
	return filepath.Join(c.Root, c.Pages)
}

// ConfigPath returns the configuration file, defaulting to <root>/config.yaml.
func (c *CLI) ConfigPath() string {
	if c.Config != "" {
		return c.Config
	}
	return filepath.Join(c.Root, config.FileName)
}

// LoadConfig reads the configuration. When the file does not name a branch
// and the root is a git checkout, the checked-out branch is used for source
// links.
func (c *CLI) LoadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath())
	if err != nil {
		return nil, err
	}
	if cfg.BranchDefaulted() {
		if branch, err := git.CurrentBranch(c.Root); err == nil {
			cfg.Branch = branch
			logger.Debug("Using checked-out branch", slog.String("branch", branch))
		} else {
			logger.Debug("Branch detection skipped", logfields.Error(err))
		}
	}
	return cfg, nil
}

// recorder returns the metrics recorder for this invocation and a flush
// function writing the textfile when --metrics-file is set.
func (c *CLI) recorder(logger *slog.Logger) (metrics.Recorder, func()) {
	if c.MetricsFile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return rec, func() {
		if err := metrics.WriteTextfile(reg, c.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(err))
		}
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func header(w io.Writer, title string) {
	_, _ = io.WriteString(w, "\n"+headerStyle.Render("---- "+title+" ----")+"\n")
}
