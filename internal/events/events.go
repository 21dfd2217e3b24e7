// Package events publishes a notification when a site build finishes, so
// deployment hooks can react without polling the output directory.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// BuildCompleted describes one finished build.
type BuildCompleted struct {
	ID         string    `json:"id"`
	Site       string    `json:"site"`
	URL        string    `json:"url"`
	Output     string    `json:"output"`
	Documents  int       `json:"documents"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBuildCompleted fills in the id and timestamp of an event.
func NewBuildCompleted(site, url, output string, documents int, outcome string, d time.Duration, buildErr error) BuildCompleted {
	ev := BuildCompleted{
		ID:         uuid.NewString(),
		Site:       site,
		URL:        url,
		Output:     output,
		Documents:  documents,
		Outcome:    outcome,
		DurationMS: d.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if buildErr != nil {
		ev.Error = buildErr.Error()
	}
	return ev
}

// Publisher sends build events.
type Publisher interface {
	PublishBuild(ctx context.Context, ev BuildCompleted) error
	Close()
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(context.Context, BuildCompleted) error { return nil }
func (NoopPublisher) Close()                                            {}

// flushTimeout bounds the wait for the server acknowledgement. NATS refuses
// to flush without a deadline.
const flushTimeout = 5 * time.Second

// NATSPublisher publishes events on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// New returns a NATS publisher when cfg enables events and a NoopPublisher otherwise.
func New(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg.NATSURL, cfg.Subject, logger)
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("pagesmith"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, errors.DeliveryError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	logger.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}, nil
}

// PublishBuild publishes ev and waits for the server to acknowledge the flush.
func (p *NATSPublisher) PublishBuild(ctx context.Context, ev BuildCompleted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.DeliveryError("failed to publish event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return errors.DeliveryError("failed to flush event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}
	p.logger.Debug("Published build event", slog.String("id", ev.ID), slog.String("subject", p.subject))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
