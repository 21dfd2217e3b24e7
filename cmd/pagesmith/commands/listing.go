package commands

import (
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/pagesmith/internal/corpus"
)

// DraftsCmd implements the 'drafts' command.
type DraftsCmd struct{}

func (d *DraftsCmd) Run(g *Global, root *CLI) error {
	c, err := loadListing(root, g.Logger)
	if err != nil {
		return err
	}
	PrintDrafts(g.Out, c)
	return nil
}

// PrintDrafts lists the unpublished pages of c as "<filename> <title>".
func PrintDrafts(w io.Writer, c *corpus.Corpus) {
	header(w, "Drafts")
	for _, d := range c.Drafts() {
		_, _ = fmt.Fprintf(w, "%-30s %s\n", d.Filename, d.Title)
	}
}

// TodoCmd implements the 'todo' command.
type TodoCmd struct{}

func (t *TodoCmd) Run(g *Global, root *CLI) error {
	c, err := loadListing(root, g.Logger)
	if err != nil {
		return err
	}
	PrintTodo(g.Out, c)
	return nil
}

// PrintTodo lists every page with todo notes, each note indented below it.
func PrintTodo(w io.Writer, c *corpus.Corpus) {
	header(w, "TODO")
	for _, d := range c.WithTodo() {
		_, _ = fmt.Fprintf(w, "%s %s\n", d.Path, d.Title)
		for _, note := range d.Todo {
			_, _ = fmt.Fprintf(w, "   %s\n", note)
		}
	}
}

// loadListing loads the pages without rendering them.
func loadListing(root *CLI, logger *slog.Logger) (*corpus.Corpus, error) {
	cfg, err := root.LoadConfig(logger)
	if err != nil {
		return nil, err
	}
	return corpus.NewAssembler(cfg,
		corpus.WithRoot(root.Root),
		corpus.WithLogger(logger),
		corpus.WithoutBios()).LoadDocuments(root.PagesDir())
}
