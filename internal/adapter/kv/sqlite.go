package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"quizflare/internal/domain"

	"github.com/jmoiron/sqlx"
)

const (
	getValueQuery = `SELECT store_value FROM kv_store WHERE store_key = ?`
	putValueQuery = `INSERT INTO kv_store (store_key, store_value, updated_at)
VALUES (?, ?, CAST(strftime('%s', 'now') AS INTEGER))
ON CONFLICT(store_key) DO UPDATE SET store_value = excluded.store_value, updated_at = excluded.updated_at`
)

// SQLiteStore persists keys in the kv_store table of a local SQLite file.
// The schema is created by database.RunMigrations.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	if err := s.db.GetContext(ctx, &value, getValueQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return string(value), nil
}

func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, putValueQuery, key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ domain.KeyValueStore = (*SQLiteStore)(nil)
