package notify

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

// ErrMissingFrom is returned when the configuration has no sender address.
var ErrMissingFrom = errors.ConfigError("the 'from' field is missing from the config file").Build()

// Report summarizes one delivery run.
type Report struct {
	Sent    int
	Skipped int
	Failed  int
	Errors  []error
}

// Notifier mails one page to a recipient list.
type Notifier struct {
	sender   Sender
	ledger   Ledger
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithLedger sets the delivery ledger.
func WithLedger(l Ledger) Option {
	return func(n *Notifier) { n.ledger = l }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(n *Notifier) { n.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// NewNotifier creates a Notifier sending through s.
func NewNotifier(s Sender, opts ...Option) *Notifier {
	n := &Notifier{
		sender:   s,
		ledger:   NoopLedger{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewMessage builds the message for the rendered document d.
func NewMessage(cfg *config.Config, d *document.Document) (Message, error) {
	if cfg.From == nil {
		return Message{}, errors.ConfigError("the 'from' field is missing from the config file").Build()
	}
	return Message{
		From:    Recipient{Name: cfg.From.Name, Email: cfg.From.Email},
		Subject: d.Title,
		HTML:    d.Content,
	}, nil
}

// Deliver sends msg to every recipient in order. Failures are logged and
// counted; only a ledger failure or a cancelled context stops the loop.
func (n *Notifier) Deliver(ctx context.Context, msg Message, fingerprint string, recipients []Recipient) (Report, error) {
	var rep Report
	for i, to := range recipients {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		done, err := n.ledger.Delivered(ctx, fingerprint, to.Email)
		if err != nil {
			return rep, err
		}
		if done {
			rep.Skipped++
			n.logger.Debug("Already delivered", logfields.Recipient(to.Email))
			continue
		}

		n.logger.Info("Sending",
			slog.Int("index", i+1),
			logfields.Count(len(recipients)),
			logfields.Recipient(to.String()))
		if err := n.sender.Send(ctx, msg, to); err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, err)
			n.recorder.IncDelivery(false)
			n.logger.Error("Delivery failed", logfields.Recipient(to.Email), logfields.Error(err))
			continue
		}
		rep.Sent++
		n.recorder.IncDelivery(true)
		if err := n.ledger.Record(ctx, fingerprint, to.Email); err != nil {
			return rep, err
		}
	}
	return rep, nil
}
