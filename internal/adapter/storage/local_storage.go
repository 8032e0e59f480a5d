package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// LocalStorage is a durable key-value store surviving restarts.
type LocalStorage struct {
	sqldb sqldb
	now   func() time.Time
}

func NewLocalStorage(sqldb sqldb) LocalStorage {
	return LocalStorage{sqldb: sqldb, now: time.Now}
}

func (s LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "LocalStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var value []byte
	err := s.sqldb.QueryRowContext(
		ctx, `SELECT value FROM local_storage WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %q: %w", op, key, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

// SetMany writes all entries in one transaction.
func (s LocalStorage) SetMany(
	ctx context.Context, entries map[string][]byte,
) error {
	const op = "LocalStorage.SetMany"

	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	updatedAt := s.now().UnixMilli()
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		for key, value := range entries {
			if value == nil {
				value = []byte{}
			}
			_, err := tx.ExecContext(ctx, query, key, value, updatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored.
func (s LocalStorage) Delete(ctx context.Context, keys ...string) error {
	const op = "LocalStorage.Delete"

	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		for _, key := range keys {
			_, err := tx.ExecContext(
				ctx, `DELETE FROM local_storage WHERE key = ?`, key,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s LocalStorage) inTx(
	ctx context.Context, op string, fn func(*sql.Tx) error,
) (txErr error) {
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	defer func() {
		if txErr == nil {
			if err := tx.Commit(); err != nil {
				txErr = fmt.Errorf("failed to commit: %w", err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	return fn(tx)
}
