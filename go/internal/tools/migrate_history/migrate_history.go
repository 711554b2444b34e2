package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mcdev12/brickgame/go/internal/dbconfig"
	"github.com/mcdev12/brickgame/go/internal/history"
)

func main() {
	ctx := context.Background()

	// 1) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := history.Connect(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 2) Create the results table
	repo := history.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	// 3) Print summary
	var rows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM game_results`).Scan(&rows); err != nil {
		fmt.Fprintf(os.Stderr, "count results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("game_results ready on %s:%d/%s: %d rows\n", cfg.Host, cfg.Port, cfg.Database, rows)
}
