package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

// Config selects and parameterises the durable storage backend.
type Config struct {
	Driver      string
	FilePath    string
	DatabaseURL string
	SQLitePath  string
	Redis       RedisConfig
}

func NewStorage(ctx context.Context, cfg Config) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemoryStorage(), nil
	case DriverFile:
		return NewFileStorage(cfg.FilePath)
	case DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case DriverRedis:
		return NewRedisStorage(ctx, cfg.Redis)
	case DriverSQLite:
		return OpenSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, dsn string) (*PostgresStorage, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required for postgres storage")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s, err := NewPostgresStorage(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
