package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists match records to PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveMatch stores one match record with its outcome as a JSON document.
func (s *PostgresStore) SaveMatch(ctx context.Context, record MatchRecord) error {
	outcomeJSON, err := json.Marshal(record.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO match_results (id, created_at, method, status, outcome)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET method = $3, status = $4, outcome = $5`,
		record.ID, record.CreatedAt, record.Method, record.Status, outcomeJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save match record: %w", err)
	}
	return nil
}
