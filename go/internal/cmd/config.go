package main

import (
	"fmt"
	"os"

	"github.com/mcdev12/brickgame/go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging sends zerolog console output to the log file; the terminal
// itself belongs to the UI.
func setupLogging(cfg config.LogConfig) (func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: file, NoColor: true})
	zerolog.SetGlobalLevel(level)

	return func() { file.Close() }, nil
}
