package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/board"
	"github.com/mcdev12/brickgame/go/internal/dispatch"
	"github.com/mcdev12/brickgame/go/internal/history"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/mcdev12/brickgame/go/internal/session"
	"github.com/rs/zerolog/log"
)

type request int

const (
	exitRequest request = iota
	quitRequest
)

// GameAPI is the server surface the app drives
type GameAPI interface {
	session.API
	session.LobbyAPI
}

// ResultLister supplies the recent results shown in the lobby
type ResultLister interface {
	Recent(ctx context.Context, limit int) ([]history.Result, error)
}

// Config holds what the app needs besides its collaborators
type Config struct {
	MainWidth    int
	MainHeight   int
	NextWidth    int
	NextHeight   int
	RepeatWindow time.Duration
	RecentLimit  int
}

func DefaultConfig() Config {
	return Config{
		MainWidth:    10,
		MainHeight:   20,
		NextWidth:    4,
		NextHeight:   4,
		RepeatWindow: dispatch.DefaultRepeatWindow,
		RecentLimit:  5,
	}
}

// App runs the terminal UI: the lobby menu and one game session at a time.
// All screen events are handled on the goroutine that calls Run.
type App struct {
	screen   tcell.Screen
	view     *View
	renderer *board.Renderer
	api      session.API
	lobby    *session.Lobby
	keymap   *dispatch.Keymap
	clock    clockwork.Clock
	opts     session.Options
	results  ResultLister
	cfg      Config

	current  *session.Session
	controls *dispatch.Controls
}

// NewApp wires the app around an initialised screen. results may be nil.
func NewApp(screen tcell.Screen, api GameAPI, keymap *dispatch.Keymap, opts session.Options, results ResultLister, cfg Config) *App {
	main := board.NewGrid(cfg.MainWidth, cfg.MainHeight)
	next := board.NewGrid(cfg.NextWidth, cfg.NextHeight)
	view := NewView(screen, main, next)

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	a := &App{
		screen:   screen,
		view:     view,
		renderer: board.NewRenderer(main, next, view),
		api:      api,
		keymap:   keymap,
		clock:    opts.Clock,
		opts:     opts,
		results:  results,
		cfg:      cfg,
	}
	a.lobby = session.NewLobby(api, view, a.build)
	return a
}

func (a *App) View() *View { return a.view }

// Exit asks the event loop to leave the current game. Safe from any goroutine.
func (a *App) Exit() {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(exitRequest)); err != nil {
		log.Warn().Err(err).Msg("failed to post exit request")
	}
}

func (a *App) build(game models.GameInfo) *session.Session {
	return session.New(game, a.api, a.renderer, a.view, a, a.opts)
}

// Run drives the UI until Ctrl+C or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(quitRequest))
	}()
	defer a.leaveGame()

	a.showLobby(ctx)

	for {
		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			a.view.Resize()
		case *tcell.EventInterrupt:
			switch ev.Data() {
			case exitRequest:
				a.leaveGame()
				a.showLobby(ctx)
			case quitRequest:
				return nil
			}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if a.view.DismissAlert() {
				continue
			}
			if a.current != nil {
				a.controls.HandleKey(ev.Name())
				continue
			}
			a.handleLobbyKey(ctx, ev)
		}
	}
}

func (a *App) handleLobbyKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		a.view.MoveSelection(-1)
	case tcell.KeyDown:
		a.view.MoveSelection(1)
	case tcell.KeyEnter:
		game, ok := a.view.Selected()
		if !ok {
			a.showLobby(ctx)
			return
		}
		s, err := a.lobby.Choose(ctx, game)
		if err != nil {
			return
		}
		a.current = s
		a.controls = s.Controls(a.keymap, dispatch.NewRepeatDetector(a.clock, a.cfg.RepeatWindow))
	}
}

func (a *App) showLobby(ctx context.Context) {
	games, err := a.lobby.Games(ctx)
	if err != nil {
		a.view.ShowLobby(nil, nil)
		a.view.Notify(fmt.Sprintf("Failed to load games:\n%v", err))
		return
	}
	a.view.ShowLobby(games, a.recentLines(ctx))
}

func (a *App) recentLines(ctx context.Context) []string {
	if a.results == nil {
		return nil
	}
	results, err := a.results.Recent(ctx, a.cfg.RecentLimit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load recent results")
		return nil
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s  %-10s score %d  level %d",
			r.FinishedAt.Local().Format("Jan 02 15:04"), r.GameName, r.Score, r.Level))
	}
	return lines
}

func (a *App) leaveGame() {
	if a.current == nil {
		return
	}
	a.current.Close()
	a.current = nil
	a.controls = nil
}
