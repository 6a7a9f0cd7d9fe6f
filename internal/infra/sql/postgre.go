package sql

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	_maxRetries    = 5
	_retryInterval = 5 * time.Second
)

// NewPostgresORM connects through a pgx pool, retrying while the server comes
// up. GAITBASE_POSTGRES_PASSWORD is appended to the DSN when set.
func NewPostgresORM(ctx context.Context, dsn string, timeout time.Duration) (ORM, error) {
	if pass, ok := os.LookupEnv("GAITBASE_POSTGRES_PASSWORD"); ok {
		dsn = fmt.Sprintf("%s password=%s", dsn, pass)
	}

	pool, err := openPool(ctx, dsn)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	return &DB{
		DB:                   gormDB,
		autoMigrationEnabled: true,
		timeout:              timeout,
	}, nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := range _maxRetries {
		pool, err := pgxpool.New(ctx, dsn)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		slog.Warn("postgres not reachable", slog.Int("attempt", attempt+1), slog.Any("error", err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(_retryInterval):
		}
	}

	return nil, fmt.Errorf("imposible to connect to database after %d retries: %w", _maxRetries, lastErr)
}
