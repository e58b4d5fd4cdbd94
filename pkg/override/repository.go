package override

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryImpl is the Postgres backed Store, one row per key in override_kv.
type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRow(ctx, "SELECT value FROM override_kv WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read override key %s: %w", key, err)
	}
	return value, nil
}

func (r *RepositoryImpl) Set(ctx context.Context, key string, value []byte) error {
	const upsert = `
		INSERT INTO override_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("failed to store override key %s: %w", key, err)
	}
	return nil
}
