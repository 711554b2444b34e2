package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/board"
	"github.com/mcdev12/brickgame/go/internal/dispatch"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/mcdev12/brickgame/go/internal/overlay"
	"github.com/mcdev12/brickgame/go/internal/poller"
	"github.com/rs/zerolog/log"
)

// API is the part of the game server a session talks to
type API interface {
	poller.Source
	dispatch.Submitter
}

// Display is the game view a session draws into
type Display interface {
	overlay.View
	dispatch.Notifier
	SetTitle(title string)
	// Flush makes everything drawn so far visible
	Flush()
}

// Transition is a change of lifecycle status observed by polling
type Transition struct {
	SessionID uuid.UUID
	Game      models.GameInfo
	From      models.Status
	To        models.Status
	Last      *models.BoardSnapshot
	At        time.Time
}

type TransitionObserver interface {
	ObserveTransition(ctx context.Context, t Transition)
}

type FrameObserver interface {
	ObserveFrame(frame models.Frame)
}

type Options struct {
	Poll                poller.Config
	Texts               overlay.Texts
	Clock               clockwork.Clock
	FrameObservers      []FrameObserver
	TransitionObservers []TransitionObserver
}

func DefaultOptions() Options {
	return Options{
		Poll:  poller.DefaultConfig(),
		Texts: overlay.DefaultTexts(),
		Clock: clockwork.NewRealClock(),
	}
}

// Session is the context of one selected game: it owns the polling flag and
// wires the poller, dispatcher, overlay and renderer together. Close tears
// all of it down.
type Session struct {
	ID   uuid.UUID
	Game models.GameInfo

	flag       *poller.Flag
	poller     *poller.Poller
	dispatcher *dispatch.Dispatcher
	overlay    *overlay.Controller
	renderer   *board.Renderer
	display    Display
	clock      clockwork.Clock

	frameObservers      []FrameObserver
	transitionObservers []TransitionObserver

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	status models.Status
	last   *models.BoardSnapshot

	closeOnce sync.Once
}

func New(game models.GameInfo, api API, renderer *board.Renderer, display Display, navigator dispatch.Navigator, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:                  uuid.New(),
		Game:                game,
		flag:                &poller.Flag{},
		overlay:             overlay.NewController(display, opts.Texts),
		renderer:            renderer,
		display:             display,
		clock:               opts.Clock,
		frameObservers:      opts.FrameObservers,
		transitionObservers: opts.TransitionObservers,
		ctx:                 ctx,
		cancel:              cancel,
	}
	s.poller = poller.NewPoller(api, s, s.flag, opts.Clock, opts.Poll)
	s.dispatcher = dispatch.NewDispatcher(api, s.flag, s.poller, display, navigator)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatcher.Run(ctx)
	}()

	return s
}

// Begin shows the game view and starts the lobby heartbeat
func (s *Session) Begin() {
	s.display.SetTitle(s.Game.Name)
	s.flag.Enable()
	s.poller.StartSlow(s.ctx)

	log.Info().
		Str("session_id", s.ID.String()).
		Int("game_id", s.Game.ID).
		Str("game", s.Game.Name).
		Msg("game session started")
}

// Dispatch submits an action synchronously on the session context
func (s *Session) Dispatch(action models.Action, hold bool) error {
	return s.dispatcher.Dispatch(s.ctx, action, hold)
}

// Controls builds the key handler for this session
func (s *Session) Controls(keymap *dispatch.Keymap, repeats *dispatch.RepeatDetector) *dispatch.Controls {
	return dispatch.NewControls(keymap, repeats, s.dispatcher, s.overlay)
}

func (s *Session) Polling() bool { return s.flag.Enabled() }

func (s *Session) Overlay() overlay.State { return s.overlay.State() }

func (s *Session) PollStats() poller.Stats { return s.poller.Stats() }

// Last returns the most recently applied board snapshot, if any
func (s *Session) Last() *models.BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) ApplyStatus(status models.StatusSnapshot) {
	s.overlay.Apply(status)

	s.mu.Lock()
	prev := s.status
	s.status = status.Status
	last := s.last
	s.mu.Unlock()

	if prev != status.Status {
		t := Transition{
			SessionID: s.ID,
			Game:      s.Game,
			From:      prev,
			To:        status.Status,
			Last:      last,
			At:        s.clock.Now(),
		}
		log.Info().
			Str("session_id", s.ID.String()).
			Str("from", string(prev)).
			Str("to", string(status.Status)).
			Msg("status changed")
		for _, o := range s.transitionObservers {
			o.ObserveTransition(s.ctx, t)
		}
	}

	// the board loop flushes once per frame after the state is drawn
	if !s.poller.FastRunning() {
		s.display.Flush()
	}
}

func (s *Session) ApplyState(state models.BoardSnapshot) {
	s.renderer.Render(state)

	s.mu.Lock()
	s.last = &state
	status := s.status
	s.mu.Unlock()

	s.display.Flush()

	if len(s.frameObservers) == 0 {
		return
	}
	frame := models.Frame{
		SessionID: s.ID.String(),
		GameID:    s.Game.ID,
		Status:    status,
		State:     &state,
	}
	for _, o := range s.frameObservers {
		o.ObserveFrame(frame)
	}
}

// Close stops polling and waits for the loops and the dispatcher to exit
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.flag.Disable()
		s.cancel()
		s.poller.Wait()
		s.wg.Wait()

		stats := s.poller.Stats()
		log.Info().
			Str("session_id", s.ID.String()).
			Uint64("frames", stats.Frames).
			Uint64("statuses", stats.Statuses).
			Uint64("failures", stats.Failures).
			Msg("game session closed")
	})
}
