package overlay

import (
	"sync"

	"github.com/mcdev12/brickgame/go/internal/models"
)

// Texts are the overlay messages for each lifecycle phase
type Texts struct {
	Start    string `yaml:"start"`
	Gameover string `yaml:"gameover"`
	Pause    string `yaml:"pause"`
}

func DefaultTexts() Texts {
	return Texts{
		Start:    "Нажмите Enter, чтобы начать игру",
		Gameover: "Вы проиграли! Нажмите Enter, чтобы начать заново",
		Pause:    "Пауза...",
	}
}

// State is what the overlay shows for one status
type State struct {
	Visible     bool
	Text        string
	ExitEnabled bool
}

// Resolve maps a status to overlay state. Unknown statuses hide the overlay.
func Resolve(status models.Status, texts Texts) State {
	switch status {
	case models.StatusStart:
		return State{Visible: true, Text: texts.Start, ExitEnabled: true}
	case models.StatusGameover:
		return State{Visible: true, Text: texts.Gameover, ExitEnabled: true}
	case models.StatusPause:
		return State{Visible: true, Text: texts.Pause, ExitEnabled: false}
	default:
		return State{ExitEnabled: true}
	}
}

// View is the display surface for the overlay and the exit control
type View interface {
	ShowOverlay(text string)
	HideOverlay()
	SetExitEnabled(enabled bool)
}

// Controller applies statuses to a View
type Controller struct {
	view  View
	texts Texts

	mu    sync.RWMutex
	state State
}

func NewController(view View, texts Texts) *Controller {
	return &Controller{
		view:  view,
		texts: texts,
		state: State{ExitEnabled: true},
	}
}

// Apply resets the view to hidden with the exit control enabled, then shows
// whatever the status calls for.
func (c *Controller) Apply(status models.StatusSnapshot) State {
	next := Resolve(status.Status, c.texts)

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.view.HideOverlay()
	c.view.SetExitEnabled(true)
	if next.Visible {
		c.view.ShowOverlay(next.Text)
	}
	if !next.ExitEnabled {
		c.view.SetExitEnabled(false)
	}
	return next
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) ExitEnabled() bool {
	return c.State().ExitEnabled
}
