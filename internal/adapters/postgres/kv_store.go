// Package postgres provides the PostgreSQL-backed durable token record store.
// The schema is created by internal/migrate.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/ports"
)

var _ ports.KVStore = (*KVStore)(nil)

// KVStore keeps durable token records in the token_records table.
type KVStore struct {
	db *sql.DB
}

// NewKVStore creates a KVStore over db. db must use the pgx driver.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM token_records WHERE record_key = $1`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token record: %w", apperrors.MapDBError(err))
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperrors.ValidationField("record_key", "key cannot be empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO token_records (record_key, value)
		VALUES ($1, $2)
		ON CONFLICT (record_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert token record: %w", apperrors.MapDBError(err))
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM token_records WHERE record_key = ANY($1)`, keys,
	); err != nil {
		return fmt.Errorf("delete token records: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Ping checks connectivity, used by the health endpoint.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
