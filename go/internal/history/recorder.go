package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/mcdev12/brickgame/go/internal/session"
	"github.com/rs/zerolog/log"
)

// Store persists and lists results
type Store interface {
	Insert(ctx context.Context, result Result) error
	Recent(ctx context.Context, limit int) ([]Result, error)
}

// Recorder turns transitions into Gameover into stored results. Inserts
// happen on the Run goroutine so polling never waits on the database.
type Recorder struct {
	store  Store
	clock  clockwork.Clock
	config Config

	queue chan Result
	wg    sync.WaitGroup
}

func NewRecorder(store Store, clock clockwork.Clock, cfg Config) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	return &Recorder{
		store:  store,
		clock:  clock,
		config: cfg,
		queue:  make(chan Result, cfg.QueueSize),
	}
}

// ObserveTransition enqueues a result when a game with a known board ends
func (r *Recorder) ObserveTransition(ctx context.Context, t session.Transition) {
	if t.To != models.StatusGameover || t.Last == nil {
		return
	}

	finished := t.At
	if finished.IsZero() {
		finished = r.clock.Now()
	}
	result := Result{
		ID:         uuid.New(),
		SessionID:  t.SessionID,
		GameID:     t.Game.ID,
		GameName:   t.Game.Name,
		Score:      t.Last.Score,
		HighScore:  t.Last.HighScore,
		Level:      t.Last.Level,
		Speed:      t.Last.Speed,
		FinishedAt: finished.UTC(),
	}

	select {
	case r.queue <- result:
	default:
		log.Warn().
			Str("session_id", t.SessionID.String()).
			Int("score", result.Score).
			Msg("result queue full, dropping result")
	}
}

// Start runs the insert worker in the background
func (r *Recorder) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(ctx)
	}()
}

// Run inserts queued results until ctx is done, then drains what is left
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case result := <-r.queue:
			r.insert(ctx, result)
		}
	}
}

// Wait blocks until the worker started by Start has returned
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) drain() {
	for {
		select {
		case result := <-r.queue:
			r.insert(context.Background(), result)
		default:
			return
		}
	}
}

func (r *Recorder) insert(ctx context.Context, result Result) {
	ctx, cancel := context.WithTimeout(ctx, r.insertTimeout())
	defer cancel()

	if err := r.store.Insert(ctx, result); err != nil {
		log.Error().Err(err).Str("session_id", result.SessionID.String()).Msg("failed to record result")
		return
	}
	log.Info().
		Str("game", result.GameName).
		Int("score", result.Score).
		Int("level", result.Level).
		Msg("recorded game result")
}

func (r *Recorder) insertTimeout() time.Duration {
	if r.config.InsertTimeout > 0 {
		return r.config.InsertTimeout
	}
	return DefaultConfig().InsertTimeout
}

// Recent lists stored results for the lobby
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Result, error) {
	return r.store.Recent(ctx, limit)
}
