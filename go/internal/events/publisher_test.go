package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/mcdev12/brickgame/go/internal/session"
	"github.com/nats-io/nats.go"
)

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestObserveTransitionPublishesPayload(t *testing.T) {
	conn := &fakeConn{}
	p := NewStatusPublisher(conn, "brickgame.status")

	id := uuid.New()
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	p.ObserveTransition(context.Background(), session.Transition{
		SessionID: id,
		Game:      models.GameInfo{ID: 1, Name: "Tetris"},
		From:      models.StatusRunning,
		To:        models.StatusGameover,
		Last:      &models.BoardSnapshot{Score: 1200, Level: 3},
		At:        at,
	})

	if len(conn.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(conn.msgs))
	}
	msg := conn.msgs[0]
	if want := "brickgame.status." + id.String() + ".Gameover"; msg.Subject != want {
		t.Fatalf("expected subject %q, got %q", want, msg.Subject)
	}
	if got := msg.Header.Get("Event-Type"); got != EventTypeStatusChanged {
		t.Fatalf("expected event type header, got %q", got)
	}

	var payload StatusChangedPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	want := StatusChangedPayload{
		SessionID: id.String(),
		GameID:    1,
		GameName:  "Tetris",
		From:      "Running",
		To:        "Gameover",
		Score:     1200,
		Level:     3,
		ChangedAt: at,
	}
	if payload != want {
		t.Fatalf("expected %+v, got %+v", want, payload)
	}
}

func TestObserveTransitionWithoutSnapshot(t *testing.T) {
	conn := &fakeConn{}
	p := NewStatusPublisher(conn, "x")

	p.ObserveTransition(context.Background(), session.Transition{SessionID: uuid.New(), To: models.StatusStart})

	var payload StatusChangedPayload
	json.Unmarshal(conn.msgs[0].Data, &payload)
	if payload.From != "" || payload.Score != 0 {
		t.Fatalf("expected empty origin and zero score, got %+v", payload)
	}
}

func TestPublishErrorIsWrapped(t *testing.T) {
	boom := errors.New("nats: connection closed")
	p := NewStatusPublisher(&fakeConn{err: boom}, "x")

	err := p.Publish(StatusChangedPayload{SessionID: "s", To: "Pause"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	// must not panic or propagate
	p.ObserveTransition(context.Background(), session.Transition{To: models.StatusPause})
}
