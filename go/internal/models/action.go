package models

import "fmt"

// Action is the closed set of codes accepted by POST /api/actions
type Action int

const (
	ActionStart     Action = 1
	ActionPause     Action = 2
	ActionTerminate Action = 3
	ActionLeft      Action = 4
	ActionRight     Action = 5
	ActionUp        Action = 6
	ActionDown      Action = 7
	ActionPrimary   Action = 8
)

var actionNames = map[Action]string{
	ActionStart:     "start",
	ActionPause:     "pause",
	ActionTerminate: "terminate",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionUp:        "up",
	ActionDown:      "down",
	ActionPrimary:   "action",
}

// Valid reports whether a is one of the known action codes
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a config name ("up", "start", ...) to its action code
func ParseAction(name string) (Action, error) {
	for action, n := range actionNames {
		if n == name {
			return action, nil
		}
	}
	return 0, fmt.Errorf("unknown action name %q", name)
}

// UserAction is the body of POST /api/actions
type UserAction struct {
	ID   Action `json:"id"`
	Hold bool   `json:"hold"`
}
