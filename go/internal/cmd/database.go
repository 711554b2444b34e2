package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/brickgame/go/internal/history"
	"github.com/rs/zerolog/log"
)

func setupDatabase(ctx context.Context, cfg history.Config) (*pgxpool.Pool, error) {
	pool, err := history.Connect(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to results database: %w", err)
	}

	log.Info().
		Str("host", pool.Config().ConnConfig.Host).
		Str("database", pool.Config().ConnConfig.Database).
		Msg("connected to results database")
	return pool, nil
}

func printHistory(ctx context.Context, services *Services, out io.Writer) error {
	if services.History == nil {
		return fmt.Errorf("no results database configured (set HISTORY_DB_HOST or history.dsn)")
	}

	results, err := services.History.Recent(ctx, 20)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "no games recorded yet")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s  %-10s score %-6d high %-6d level %-2d speed %d\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"), r.GameName, r.Score, r.HighScore, r.Level, r.Speed)
	}
	return nil
}
