package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Connect opens a pool for dsn and verifies it
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the results table if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create game_results: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, result Result) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO game_results (
		  id, session_id, game_id, game_name, score,
		  high_score, level, speed, finished_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING
	`,
		result.ID, result.SessionID, result.GameID, result.GameName, result.Score,
		result.HighScore, result.Level, result.Speed, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert result %s: %w", result.ID, err)
	}
	return nil
}

// Recent returns the latest limit results, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, game_id, game_name, score,
		       high_score, level, speed, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		if err := rows.Scan(
			&res.ID, &res.SessionID, &res.GameID, &res.GameName, &res.Score,
			&res.HighScore, &res.Level, &res.Speed, &res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}
