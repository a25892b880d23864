// Package messaging publishes match lifecycle events so other services
// (notifications, chat) can react to a new mutual match.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// MutualMatchEvent is published once per user when a pair becomes mutual.
type MutualMatchEvent struct {
	UserID      uint64    `json:"user_id"`
	MatchedWith uint64    `json:"matched_with"`
	MatchID     uint64    `json:"match_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers match events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishMutualMatch(ctx context.Context, evt MutualMatchEvent) error
}

// NoopPublisher drops every event. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishMutualMatch(context.Context, MutualMatchEvent) error { return nil }

// NATSPublisher publishes events as JSON on <prefix>.mutual.<user_id>.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to url. The connection reconnects forever.
func NewNATSPublisher(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("muzz-matching"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

// SubjectFor returns the subject a user's mutual-match events go to.
func SubjectFor(prefix string, userID uint64) string {
	return fmt.Sprintf("%s.mutual.%d", prefix, userID)
}

func (p *NATSPublisher) PublishMutualMatch(ctx context.Context, evt MutualMatchEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(SubjectFor(p.prefix, evt.UserID), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
