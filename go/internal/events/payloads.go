package events

import (
	"time"
)

// StatusChangedPayload is published whenever polling observes a new status
type StatusChangedPayload struct {
	SessionID string    `json:"session_id"`
	GameID    int       `json:"game_id"`
	GameName  string    `json:"game_name"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	ChangedAt time.Time `json:"changed_at"`
}
