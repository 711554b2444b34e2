package dispatch

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/rs/zerolog/log"
)

const DefaultRepeatWindow = 150 * time.Millisecond

// RepeatDetector treats a key as auto-repeat when it arrives again within
// the window of its previous press. Terminals do not report repeats.
type RepeatDetector struct {
	clock  clockwork.Clock
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

func NewRepeatDetector(clock clockwork.Clock, window time.Duration) *RepeatDetector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RepeatDetector{
		clock:  clock,
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Observe records a key event and reports whether it is a repeat
func (r *RepeatDetector) Observe(key string) bool {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, seen := r.last[key]
	r.last[key] = now
	return seen && now.Sub(prev) <= r.window
}

// Enqueuer accepts actions for asynchronous submission
type Enqueuer interface {
	Enqueue(action models.Action, hold bool) bool
}

// ExitGate reports whether the exit control is currently enabled
type ExitGate interface {
	ExitEnabled() bool
}

// Controls turns key events into queued actions
type Controls struct {
	keymap  *Keymap
	repeats *RepeatDetector
	actions Enqueuer
	gate    ExitGate
}

func NewControls(keymap *Keymap, repeats *RepeatDetector, actions Enqueuer, gate ExitGate) *Controls {
	return &Controls{
		keymap:  keymap,
		repeats: repeats,
		actions: actions,
		gate:    gate,
	}
}

// HandleKey dispatches the action bound to key. It returns false for
// unbound keys and for the exit control while it is disabled.
func (c *Controls) HandleKey(key string) bool {
	action, ok := c.keymap.Lookup(key)
	if !ok {
		return false
	}
	repeat := c.repeats.Observe(key)

	hold := false
	switch action {
	case models.ActionStart, models.ActionPause:
	case models.ActionTerminate:
		if c.gate != nil && !c.gate.ExitEnabled() {
			log.Debug().Msg("exit control disabled, ignoring")
			return false
		}
	default:
		hold = repeat
	}

	return c.actions.Enqueue(action, hold)
}
