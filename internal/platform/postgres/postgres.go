package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned by Connect when no DSN was configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

type settings struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	pingTimeout     time.Duration
	logLevel        gormlogger.LogLevel
}

// Option tunes the connection pool and driver behaviour.
type Option func(*settings)

// WithPool caps open and idle connections. Zero keeps the database/sql default.
func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(s *settings) {
		s.maxOpenConns = maxOpen
		s.maxIdleConns = maxIdle
		s.connMaxLifetime = maxLifetime
	}
}

// WithPingTimeout bounds the connectivity check performed after dialing.
func WithPingTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.pingTimeout = d
		}
	}
}

// WithQueryLogging enables gorm's statement logger at the given level.
func WithQueryLogging(level gormlogger.LogLevel) Option {
	return func(s *settings) { s.logLevel = level }
}

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
// Driver errors are translated so constraint violations surface as gorm sentinels.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	s := settings{pingTimeout: 5 * time.Second, logLevel: gormlogger.Silent}
	for _, opt := range opts {
		opt(&s)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(s.logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap postgres pool: %w", err)
	}
	if s.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.maxOpenConns)
	}
	if s.maxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(s.maxIdleConns)
	}
	if s.connMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.connMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Open is Connect for processes that can run without a database. A missing DSN or a failed
// dial is logged and yields a nil DB so callers fall back to in-memory repositories.
func Open(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := Connect(ctx, dsn, opts...)
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.Warn("POSTGRES_DSN not set")
		return nil, func() {}
	case err != nil:
		logger.Warn("postgres unavailable", slog.String("error", err.Error()))
		return nil, func() {}
	}

	sqlDB, _ := db.DB()
	stats := sqlDB.Stats()
	logger.Info("postgres connection established", slog.Int("max_open_conns", stats.MaxOpenConnections))
	return db, func() { _ = sqlDB.Close() }
}
