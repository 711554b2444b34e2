package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/brickgame/go/clients"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/mcdev12/brickgame/go/internal/poller"
	"github.com/rs/zerolog/log"
)

var ErrUnknownAction = errors.New("unknown action")

// Submitter sends one action to the server
type Submitter interface {
	SubmitAction(ctx context.Context, action models.UserAction) error
}

// PollStarter starts the board poll loop
type PollStarter interface {
	StartFast(ctx context.Context) bool
}

// Notifier shows a blocking message to the player
type Notifier interface {
	Notify(message string)
}

// Navigator leaves the game view
type Navigator interface {
	Exit()
}

type request struct {
	action models.Action
	hold   bool
}

// Dispatcher submits player actions and owns the flag transitions that
// start and terminate polling.
type Dispatcher struct {
	submitter Submitter
	flag      *poller.Flag
	polls     PollStarter
	notifier  Notifier
	navigator Navigator

	queue chan request
}

func NewDispatcher(submitter Submitter, flag *poller.Flag, polls PollStarter, notifier Notifier, navigator Navigator) *Dispatcher {
	return &Dispatcher{
		submitter: submitter,
		flag:      flag,
		polls:     polls,
		notifier:  notifier,
		navigator: navigator,
		queue:     make(chan request, 64),
	}
}

// Dispatch submits one action. Start enables polling and launches the board
// loop before the request goes out; terminate disables polling first and
// leaves the game view once the server accepts it.
func (d *Dispatcher) Dispatch(ctx context.Context, action models.Action, hold bool) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownAction, int(action))
	}

	switch action {
	case models.ActionStart:
		d.flag.Enable()
		d.polls.StartFast(ctx)
	case models.ActionTerminate:
		d.flag.Disable()
	}

	err := d.submitter.SubmitAction(ctx, models.UserAction{ID: action, Hold: hold})
	if err != nil {
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			log.Warn().
				Int("status_code", apiErr.StatusCode).
				Str("action", action.String()).
				Msg("action rejected by server")
			d.notifier.Notify(apiErr.Alert())
			return err
		}
		log.Error().Err(err).Str("action", action.String()).Msg("failed to submit action")
		return err
	}

	if action == models.ActionTerminate {
		d.navigator.Exit()
	}
	return nil
}

// Enqueue hands an action to the Run worker without blocking the caller
func (d *Dispatcher) Enqueue(action models.Action, hold bool) bool {
	select {
	case d.queue <- request{action: action, hold: hold}:
		return true
	default:
		log.Warn().Str("action", action.String()).Msg("action queue full, dropping input")
		return false
	}
}

// Run submits queued actions one at a time, in input order
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.queue:
			_ = d.Dispatch(ctx, req.action, req.hold)
		}
	}
}
