package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, key string) (Slot, error) {
	var (
		value   string
		updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM session_state WHERE key = ?`, key,
	).Scan(&value, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Slot{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return Slot{}, fmt.Errorf("load slot %s: %w", key, err)
	}
	return Slot{Key: key, Value: value, UpdatedAt: time.UnixMilli(updated)}, nil
}

func (r *SQLiteRepository) Store(ctx context.Context, slot Slot) error {
	if slot.Value == "" {
		return fmt.Errorf("store slot %s: empty value", slot.Key)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, slot.Key, slot.Value, slot.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("store slot %s: %w", slot.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("remove slot %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove slot %s: %w", key, err)
	}
	return n > 0, nil
}
