package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/clients/brickgame_client"
	"github.com/mcdev12/brickgame/go/internal/config"
	"github.com/mcdev12/brickgame/go/internal/dispatch"
	"github.com/mcdev12/brickgame/go/internal/events"
	"github.com/mcdev12/brickgame/go/internal/history"
	"github.com/mcdev12/brickgame/go/internal/mirror"
	"github.com/mcdev12/brickgame/go/internal/session"
	"github.com/mcdev12/brickgame/go/internal/terminal"
	"github.com/rs/zerolog/log"
)

// Services holds the client and the optional collaborators enabled by config
type Services struct {
	Client *brickgame_client.Client
	Keymap *dispatch.Keymap
	Clock  clockwork.Clock

	Mirror     *mirror.ConnectionManager
	MirrorAddr string
	Publisher  *events.StatusPublisher
	History    *history.Recorder

	pool         *pgxpool.Pool
	stopRecorder context.CancelFunc
}

func setupServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	keymap, err := dispatch.NewKeymap(cfg.Input.Bindings)
	if err != nil {
		return nil, err
	}

	client := brickgame_client.NewClient(cfg.Server.URL)
	client.SetTimeout(cfg.Server.RequestTimeout)

	s := &Services{
		Client: client,
		Keymap: keymap,
		Clock:  clockwork.NewRealClock(),
	}

	if cfg.Mirror.Addr != "" {
		s.Mirror = mirror.NewConnectionManager(cfg.Mirror.Connection)
		s.MirrorAddr = cfg.Mirror.Addr
	}

	// optional services degrade to disabled rather than blocking play
	if cfg.Events.URL != "" {
		publisher, err := events.NewNATSPublisher(cfg.Events)
		if err != nil {
			log.Error().Err(err).Str("url", cfg.Events.URL).Msg("status events disabled")
		} else {
			s.Publisher = publisher
		}
	}

	if cfg.History.DSN != "" {
		pool, err := setupDatabase(ctx, cfg.History)
		if err != nil {
			log.Error().Err(err).Msg("result history disabled")
		} else {
			recorderCtx, cancel := context.WithCancel(context.Background())
			s.pool = pool
			s.History = history.NewRecorder(history.NewRepository(pool), s.Clock, cfg.History)
			s.stopRecorder = cancel
			s.History.Start(recorderCtx)
		}
	}

	return s, nil
}

// SessionOptions builds per-session options with every enabled observer attached
func (s *Services) SessionOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.Poll = cfg.Poll
	opts.Texts = cfg.Overlay
	opts.Clock = s.Clock

	if s.Mirror != nil {
		opts.FrameObservers = append(opts.FrameObservers, s.Mirror)
	}
	if s.Publisher != nil {
		opts.TransitionObservers = append(opts.TransitionObservers, s.Publisher)
	}
	if s.History != nil {
		opts.TransitionObservers = append(opts.TransitionObservers, s.History)
	}
	return opts
}

// Results returns the lobby's result source, or nil without a database
func (s *Services) Results() terminal.ResultLister {
	if s.History == nil {
		return nil
	}
	return s.History
}

func (s *Services) Close() {
	if s.stopRecorder != nil {
		s.stopRecorder()
		s.History.Wait()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}
