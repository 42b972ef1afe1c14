// Package events publishes build lifecycle events to NATS JetStream when an
// events endpoint is configured. Downstream consumers turn broken-link events
// into tracker issues or chat notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/instructa/coursegen/internal/config"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/linkverify"
)

// BuildEvent is published when a build finishes.
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"` // success | warning | failed
	Pages       int       `json:"pages"`
	BrokenLinks int       `json:"broken_links"`
	DurationMS  int64     `json:"duration_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// BrokenLinkEvent is published per broken internal link found during
// verification.
type BrokenLinkEvent struct {
	BuildID     string    `json:"build_id"`
	SourcePage  string    `json:"source_page"`
	Destination string    `json:"destination"`
	Resolved    string    `json:"resolved,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher sends build events over NATS JetStream.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and ensures a stream covering the configured
// subject exists.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("events publishing is disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, cerrors.EventPublishError(cfg.Subject, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, cerrors.EventPublishError(cfg.Subject, err)
	}

	p := &Publisher{conn: conn, js: js, subject: cfg.Subject}
	if err := p.ensureStream(); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("Event publisher initialized", "url", cfg.NATSURL, "subject", cfg.Subject)
	return p, nil
}

func (p *Publisher) ensureStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := streamName(p.subject)
	_, err := p.js.Stream(ctx, name)
	if err == nil {
		return nil
	}

	_, err = p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        name,
		Description: "coursegen build events",
		Subjects:    []string{p.subject, p.subject + ".>"},
		MaxAge:      30 * 24 * time.Hour,
	})
	if err != nil {
		return cerrors.EventPublishError(p.subject, err)
	}
	return nil
}

// PublishBuild publishes a build completion event.
func (p *Publisher) PublishBuild(ctx context.Context, ev BuildEvent) error {
	ev.Timestamp = time.Now()
	return p.publish(ctx, p.subject, ev)
}

// PublishBrokenLink publishes one broken-link event.
func (p *Publisher) PublishBrokenLink(ctx context.Context, buildID string, link linkverify.BrokenLink) error {
	ev := BrokenLinkEvent{
		BuildID:     buildID,
		SourcePage:  link.SourcePage,
		Destination: link.Destination,
		Resolved:    link.Resolved,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, p.subject+".broken_link", ev)
}

func (p *Publisher) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return cerrors.EventPublishError(subject, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return cerrors.EventPublishError(subject, err)
	}
	slog.Debug("Published event", "subject", subject)
	return nil
}

// Close drains the connection so in-flight publishes are flushed before the
// connection goes away.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// streamName derives a valid stream name from the subject; stream names may
// not contain dots.
func streamName(subject string) string {
	name := strings.ToUpper(strings.ReplaceAll(subject, ".", "_"))
	return name
}
