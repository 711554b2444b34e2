package models

// GameInfo is one entry of the server's game catalogue
type GameInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Status is the coarse lifecycle phase of a session
type Status string

const (
	StatusStart    Status = "Start"
	StatusRunning  Status = "Running"
	StatusPause    Status = "Pause"
	StatusGameover Status = "Gameover"
)

// StatusSnapshot is the body of GET /api/status
type StatusSnapshot struct {
	Status Status `json:"status"`
}

// BoardSnapshot is the body of GET /api/state.
// Next is nil when there is no upcoming piece to preview.
type BoardSnapshot struct {
	Field     [][]int `json:"field"`
	Next      [][]int `json:"next"`
	Score     int     `json:"score"`
	HighScore int     `json:"highScore"`
	Level     int     `json:"level"`
	Speed     int     `json:"speed"`
	Pause     bool    `json:"pause"`
}

// ErrorMessage is the body the server attaches to non-2xx responses
type ErrorMessage struct {
	Message string `json:"message"`
}

// Frame is one applied poll result, as pushed to spectators
type Frame struct {
	SessionID string         `json:"session_id"`
	GameID    int            `json:"game_id"`
	Status    Status         `json:"status"`
	State     *BoardSnapshot `json:"state,omitempty"`
}
