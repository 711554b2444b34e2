package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/brickgame/go/clients"
	"github.com/mcdev12/brickgame/go/internal/dispatch"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/rs/zerolog/log"
)

const StartedMessage = "Game was successfully started"

// LobbyAPI is the game catalogue part of the server
type LobbyAPI interface {
	ListGames(ctx context.Context) ([]models.GameInfo, error)
	ChooseGame(ctx context.Context, id int) error
}

// Builder creates the session for a chosen game
type Builder func(game models.GameInfo) *Session

// Lobby lists games and turns a selection into a running session
type Lobby struct {
	api      LobbyAPI
	notifier dispatch.Notifier
	build    Builder
}

func NewLobby(api LobbyAPI, notifier dispatch.Notifier, build Builder) *Lobby {
	return &Lobby{
		api:      api,
		notifier: notifier,
		build:    build,
	}
}

func (l *Lobby) Games(ctx context.Context) ([]models.GameInfo, error) {
	games, err := l.api.ListGames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load game list")
		return nil, err
	}
	return games, nil
}

// Choose asks the server to start game. A rejection is shown to the player
// and yields no session.
func (l *Lobby) Choose(ctx context.Context, game models.GameInfo) (*Session, error) {
	if err := l.api.ChooseGame(ctx, game.ID); err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			log.Warn().Int("status_code", apiErr.StatusCode).Int("game_id", game.ID).Msg("game selection rejected")
			l.notifier.Notify(apiErr.Alert())
		} else {
			log.Error().Err(err).Int("game_id", game.ID).Msg("failed to choose game")
		}
		return nil, fmt.Errorf("failed to start %s: %w", game.Name, err)
	}

	s := l.build(game)
	s.Begin()
	l.notifier.Notify(StartedMessage)
	return s, nil
}
