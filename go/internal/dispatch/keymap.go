package dispatch

import (
	"fmt"
	"sort"

	"github.com/mcdev12/brickgame/go/internal/models"
)

// Bindings maps an action name ("up", "start", ...) to the key names that
// trigger it. Key names are tcell event names such as "Up", "Enter" or "Rune[w]".
type Bindings map[string][]string

func DefaultBindings() Bindings {
	return Bindings{
		"up":        {"Up", "Rune[w]"},
		"right":     {"Right", "Rune[d]"},
		"down":      {"Down", "Rune[s]"},
		"left":      {"Left", "Rune[a]"},
		"start":     {"Enter"},
		"action":    {"Rune[ ]"},
		"pause":     {"Rune[p]"},
		"terminate": {"Esc", "Rune[q]"},
	}
}

// Keymap resolves key names to actions
type Keymap struct {
	keys map[string]models.Action
}

func NewKeymap(bindings Bindings) (*Keymap, error) {
	km := &Keymap{keys: make(map[string]models.Action)}

	// sorted so duplicate errors are deterministic
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		action, err := models.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("invalid key binding: %w", err)
		}
		for _, key := range bindings[name] {
			if prev, exists := km.keys[key]; exists {
				return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, action)
			}
			km.keys[key] = action
		}
	}
	return km, nil
}

func (k *Keymap) Lookup(key string) (models.Action, bool) {
	action, ok := k.keys[key]
	return action, ok
}
