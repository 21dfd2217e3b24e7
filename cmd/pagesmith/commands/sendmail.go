package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/corpus"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/notify"
)

// SendmailCmd implements the 'sendmail' command.
type SendmailCmd struct {
	Mail   string `help:"Markdown page to send" required:"" type:"existingfile"`
	ToFile string `name:"tofile" help:"CSV file of recipients" required:"" type:"existingfile"`
	Ledger string `help:"SQLite file recording deliveries; recipients already recorded for this page are skipped"`
}

func (s *SendmailCmd) Run(g *Global, root *CLI) error {
	rec, flush := root.recorder(g.Logger)
	defer flush()

	cfg, err := root.LoadConfig(g.Logger)
	if err != nil {
		return err
	}
	if cfg.From == nil {
		return notify.ErrMissingFrom
	}
	key, err := config.LoadSecret(root.Root, config.SendGridKeyName)
	if err != nil {
		return err
	}

	doc, err := document.Load(s.Mail)
	if err != nil {
		return err
	}
	if err := corpus.CheckAuthor(doc, cfg); err != nil {
		return err
	}
	fingerprint, err := notify.Fingerprint(doc)
	if err != nil {
		return err
	}
	asm := corpus.NewAssembler(cfg, corpus.WithRoot(root.Root), corpus.WithoutBios())
	html, err := asm.Renderer().Render(doc.Content)
	if err != nil {
		return err
	}
	msg, err := notify.NewMessage(cfg, doc.WithContent(html))
	if err != nil {
		return err
	}

	recipients, err := notify.ReadRecipients(s.ToFile, g.Logger)
	if err != nil {
		return err
	}

	var ledger notify.Ledger = notify.NoopLedger{}
	if s.Ledger != "" {
		l, err := notify.NewSQLiteLedger(s.Ledger)
		if err != nil {
			return err
		}
		ledger = l
	}
	defer func() { _ = ledger.Close() }()

	n := notify.NewNotifier(notify.NewSendGridSender(key),
		notify.WithLedger(ledger),
		notify.WithRecorder(rec),
		notify.WithLogger(g.Logger))
	report, err := n.Deliver(g.ctx(), msg, fingerprint, recipients)
	if err != nil {
		return err
	}
	g.Logger.Info("Mail run finished",
		logfields.Count(report.Sent),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return nil
}
