package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 25
	connMaxIdleTime = 5 * time.Minute
)

// Postgres wraps the shared gorm handle both module repositories run on.
type Postgres struct {
	DB *gorm.DB
}

// Connect opens, tunes, and pings a postgres pool. The ping runs up front so
// a bad DSN fails the process at startup instead of on the first request.
func Connect(dsn string, logger *slog.Logger) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connection established",
		"event", "postgres_connected",
		"layer", "platform",
		"max_open_conns", maxOpenConns,
	)
	return &Postgres{DB: gormDB}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
