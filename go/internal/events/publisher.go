package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/brickgame/go/internal/session"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const EventTypeStatusChanged = "StatusChanged"

type Config struct {
	URL           string        `yaml:"nats_url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
}

func DefaultConfig() Config {
	return Config{
		SubjectPrefix: "brickgame.status",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Conn is the part of a NATS connection the publisher needs
type Conn interface {
	PublishMsg(msg *nats.Msg) error
}

// StatusPublisher turns session transitions into NATS messages
type StatusPublisher struct {
	conn   Conn
	prefix string
	close  func()
}

func NewStatusPublisher(conn Conn, prefix string) *StatusPublisher {
	return &StatusPublisher{conn: conn, prefix: prefix}
}

// NewNATSPublisher connects to cfg.URL and reconnects without limit by default
func NewNATSPublisher(cfg Config) (*StatusPublisher, error) {
	opts := []nats.Option{
		nats.Name("brickgame-client"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p := NewStatusPublisher(nc, cfg.SubjectPrefix)
	p.close = nc.Close
	return p, nil
}

// Subject is where transitions into status for sessionID are published
func (p *StatusPublisher) Subject(sessionID, status string) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, sessionID, status)
}

func (p *StatusPublisher) Publish(payload StatusChangedPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}

	subject := p.Subject(payload.SessionID, payload.To)
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{EventTypeStatusChanged},
			"Session-ID": []string{payload.SessionID},
		},
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	log.Debug().Str("subject", subject).Msg("published status change")
	return nil
}

// ObserveTransition publishes t. Failures are logged and never reach the poller.
func (p *StatusPublisher) ObserveTransition(ctx context.Context, t session.Transition) {
	payload := StatusChangedPayload{
		SessionID: t.SessionID.String(),
		GameID:    t.Game.ID,
		GameName:  t.Game.Name,
		From:      string(t.From),
		To:        string(t.To),
		ChangedAt: t.At.UTC(),
	}
	if t.Last != nil {
		payload.Score = t.Last.Score
		payload.Level = t.Last.Level
	}

	if err := p.Publish(payload); err != nil {
		log.Error().Err(err).Str("session_id", payload.SessionID).Msg("failed to publish status change")
	}
}

func (p *StatusPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}
