package watermark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps watermarks in the app_state table, one row per
// key. Writes upsert so the first run needs no seeding.
type PostgresStore struct {
	db *sqlx.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var value int64
	err := s.db.GetContext(ctx, &value,
		`SELECT item_value FROM app_state WHERE key_name = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select app_state key=%s: %w", key, err)
	}

	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key_name, item_value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key_name)
		 DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert app_state key=%s: %w", key, err)
	}

	return nil
}
