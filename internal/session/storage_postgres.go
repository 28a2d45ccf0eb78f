package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) (*PostgresStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	s := &PostgresStorage{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) ensureSchema() error {
	const q = `
CREATE TABLE IF NOT EXISTS portal_client_storage (
	client_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (client_id, key)
)`
	if _, err := s.db.Exec(q); err != nil {
		return fmt.Errorf("ensure portal_client_storage schema: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Load(ctx context.Context, clientID string) (map[string]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}
	const q = `SELECT key, value FROM portal_client_storage WHERE client_id = $1`
	rows, err := s.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, fmt.Errorf("query client storage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan client storage: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client storage: %w", err)
	}
	return out, nil
}

func (s *PostgresStorage) Put(ctx context.Context, clientID string, values map[string]string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO portal_client_storage (client_id, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (client_id, key) DO UPDATE
SET value = EXCLUDED.value,
	updated_at = NOW()`
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, q, clientID, k, v); err != nil {
			return fmt.Errorf("upsert client storage: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit client storage tx: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Clear(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portal_client_storage WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("clear client storage: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
