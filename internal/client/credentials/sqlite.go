package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	return value, nil
}

func upsert(ctx context.Context, db dbtx, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := upsert(ctx, r.db, key, value); err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

func deleteKeys(ctx context.Context, db dbtx, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (`+placeholders+`)`, args...)
	return err
}

func (r *SQLiteRepository) Update(ctx context.Context, set map[string][]byte, del ...string) error {
	err := withTx(ctx, r.db, func(ctx context.Context, tx dbtx) error {
		for k, v := range set {
			if err := upsert(ctx, tx, k, v); err != nil {
				return fmt.Errorf("credential[%s]: %w", k, err)
			}
		}
		return deleteKeys(ctx, tx, del)
	})
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if err := deleteKeys(ctx, r.db, keys); err != nil {
		return fmt.Errorf("failed to delete credential%v: %w", keys, err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
