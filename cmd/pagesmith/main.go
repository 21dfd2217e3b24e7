package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/cmd/pagesmith/commands"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli := &commands.CLI{}
	global := &commands.Global{Context: ctx, Logger: slog.Default(), Out: os.Stdout}
	parser := kong.Parse(cli,
		kong.Bind(global),
		kong.Name("pagesmith"),
		kong.Description("Static site builder for a directory of Markdown pages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(global, cli)
	cancel()
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
