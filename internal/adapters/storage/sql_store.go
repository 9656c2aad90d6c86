package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*SQLStore)(nil)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		storage_key TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`

type kvRow struct {
	Key       string    `db:"storage_key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLStore persists values in a single kv_store table. Queries are written
// with ? placeholders and rebound for the driver, so the same store serves
// postgres (pgx, lib/pq) and sqlite.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates the kv_store table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createKVTable); err != nil {
		return fmt.Errorf("sql store: migrate: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var payload string
	query := s.db.Rebind(`SELECT payload FROM kv_store WHERE storage_key = ?`)

	err := s.db.GetContext(ctx, &payload, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("sql store: get %s: %w", key, err)
	}
	return payload, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	row := kvRow{Key: key, Payload: value, UpdatedAt: time.Now().UTC()}

	query := `
		INSERT INTO kv_store (storage_key, payload, updated_at)
		VALUES (:storage_key, :payload, :updated_at)
		ON CONFLICT (storage_key) DO UPDATE
		SET payload = excluded.payload,
		    updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("sql store: set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM kv_store WHERE storage_key = ?`)

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("sql store: remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store`); err != nil {
		return fmt.Errorf("sql store: clear: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
