package history

import (
	"time"

	"github.com/google/uuid"
)

// Result is one finished game as stored in game_results
type Result struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	GameID     int
	GameName   string
	Score      int
	HighScore  int
	Level      int
	Speed      int
	FinishedAt time.Time
}

type Config struct {
	DSN           string        `yaml:"dsn"`
	QueueSize     int           `yaml:"queue_size"`
	InsertTimeout time.Duration `yaml:"insert_timeout"`
}

func DefaultConfig() Config {
	return Config{
		QueueSize:     32,
		InsertTimeout: 5 * time.Second,
	}
}

// Schema creates the results table
const Schema = `
CREATE TABLE IF NOT EXISTS game_results (
    id          UUID PRIMARY KEY,
    session_id  UUID NOT NULL,
    game_id     INTEGER NOT NULL,
    game_name   TEXT NOT NULL,
    score       INTEGER NOT NULL,
    high_score  INTEGER NOT NULL,
    level       INTEGER NOT NULL,
    speed       INTEGER NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS game_results_finished_at_idx ON game_results (finished_at DESC);
`
