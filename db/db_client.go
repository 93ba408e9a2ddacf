// Package db owns the PostgreSQL connection pool and the embedded schema
// migrations for the feedback table.
package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tsgfeedback/feedback-api/logger"
)

const (
	defaultMaxRetries = 5
	defaultRetryDelay = time.Second
)

// DatabaseClient wraps a pgxpool.Pool and owns its lifecycle.
type DatabaseClient struct {
	pool       *pgxpool.Pool
	config     *pgxpool.Config
	maxRetries int
	retryDelay time.Duration
	mu         sync.RWMutex
}

// NewDatabaseClient wraps an already connected pool.
func NewDatabaseClient(pool *pgxpool.Pool) *DatabaseClient {
	return &DatabaseClient{
		pool:       pool,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// NewDatabaseClientWithConfig prepares a client that connects lazily via Connect.
func NewDatabaseClientWithConfig(config *pgxpool.Config) *DatabaseClient {
	return &DatabaseClient{
		config:     config,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// Connect opens the pool, retrying with a linear backoff until the database
// answers a ping or the retries run out.
func (dc *DatabaseClient) Connect(ctx context.Context) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.config == nil {
		return fmt.Errorf("cannot connect: database configuration not available")
	}

	log := logger.GetLogger()
	var lastErr error
	for attempt := 1; attempt <= dc.maxRetries; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, dc.config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				dc.pool = pool
				log.Infow("Connected to database",
					"host", dc.config.ConnConfig.Host,
					"database", dc.config.ConnConfig.Database,
					"attempt", attempt)
				return nil
			}
			pool.Close()
		}
		lastErr = err
		log.Warnw("Database connection attempt failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * dc.retryDelay):
		}
	}
	return fmt.Errorf("failed to connect to database after %d attempts: %w", dc.maxRetries, lastErr)
}

// GetPool returns the underlying pool in a thread-safe manner.
func (dc *DatabaseClient) GetPool() *pgxpool.Pool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.pool
}

// Close releases every pooled connection.
func (dc *DatabaseClient) Close() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.pool != nil {
		dc.pool.Close()
		dc.pool = nil
	}
}
