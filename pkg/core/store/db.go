// Package store persists analysis results to Postgres as JSONB blobs, one
// row per stock code.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	mu   sync.Mutex
)

// InitDB initializes the shared connection pool. An empty url falls back to
// the DATABASE_URL environment variable. Calling again after a successful
// init is a no-op; a failed init can be retried.
func InitDB(ctx context.Context, url string) error {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return nil
	}

	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return err
	}
	pool = p
	return nil
}

// GetPool returns the shared pool, or nil before a successful InitDB.
func GetPool() *pgxpool.Pool {
	mu.Lock()
	defer mu.Unlock()
	return pool
}

// Close closes the shared pool. A later InitDB reconnects.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}
