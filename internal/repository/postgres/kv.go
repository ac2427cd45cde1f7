package postgres

import (
	"context"
	"errors"
	"fmt"

	"pr-risk-analyzer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectEntryQuery = `SELECT value FROM kv_entries WHERE key=$1`
	upsertEntryQuery = `INSERT INTO kv_entries(key, value, updated_at) VALUES ($1,$2,NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	deleteEntryQuery = `DELETE FROM kv_entries WHERE key=$1`
)

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	queryCtx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	var value []byte
	if err := p.db.QueryRow(queryCtx, selectEntryQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrKeyNotFound
		}
		p.log.Errorw("failed to select entry", "error", err, "key", key)
		return nil, fmt.Errorf("select entry: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	queryCtx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	if _, err := p.db.Exec(queryCtx, upsertEntryQuery, key, value); err != nil {
		p.log.Errorw("failed to upsert entry", "error", err, "key", key)
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	queryCtx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()

	if _, err := p.db.Exec(queryCtx, deleteEntryQuery, key); err != nil {
		p.log.Errorw("failed to delete entry", "error", err, "key", key)
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}
