package commands

import (
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/digest"
)

// RecentCmd implements the 'recent' command.
type RecentCmd struct {
	Days int `help:"Look-back window in days" default:"7"`
}

func (r *RecentCmd) Run(g *Global, root *CLI) error {
	c, err := loadListing(root, g.Logger)
	if err != nil {
		return err
	}
	pages, err := digest.Select(c, r.Days, time.Now())
	if err != nil {
		return err
	}
	return digest.Render(g.Out, c.Config, pages)
}
