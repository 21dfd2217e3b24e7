package commands

import (
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/scaffold"
)

// NewCmd implements the 'new' command. The site is created at --root.
type NewCmd struct {
	Name string `help:"Site name" default:"My Site"`
	URL  string `help:"Public URL of the site" default:"https://example.com"`
	Repo string `help:"Source repository URL" default:"https://github.com/example/site"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	err := scaffold.New(root.Root, scaffold.Options{
		SiteName: n.Name,
		URL:      n.URL,
		Repo:     n.Repo,
		Logger:   g.Logger,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Site created in %s\n", root.Root)
	return nil
}
