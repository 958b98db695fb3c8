package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

// NATSPublisher pushes domain events to a NATS subject tree so external
// consumers (live triage inboxes, notifiers) can follow the stream without
// polling the store.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url string, subjectPrefix string) (*NATSPublisher, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, errors.New("nats url is required")
	}

	conn, err := nats.Connect(trimmed, nats.Name("feedpulse"))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	return &NATSPublisher{
		conn:   conn,
		prefix: strings.TrimSpace(subjectPrefix),
	}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "marshal event payload")
	}

	if err := p.conn.Publish(SubjectFor(p.prefix, subject), data); err != nil {
		return errs.Wrap(err, "publish event")
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// SubjectFor joins the configured prefix with an event name.
func SubjectFor(prefix string, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}

// NoopPublisher is the stand-in when no NATS URL is configured.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
