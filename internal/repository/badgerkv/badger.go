// Package badgerkv implements the repository against embedded BadgerDB.
package badgerkv

import (
	"context"
	"errors"
	"fmt"

	"pr-risk-analyzer/config"
	"pr-risk-analyzer/internal/entities"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Badger wraps a badger database handle and configuration.
type Badger struct {
	log *zap.SugaredLogger
	db  *badger.DB
	cfg config.BadgerConfig
}

// New creates a Badger repository instance.
func New(log *zap.SugaredLogger, cfg *config.Config) *Badger {
	return &Badger{
		log: log.Named("repo.badger"),
		cfg: cfg.Badger,
	}
}

// OnStart opens the database.
func (b *Badger) OnStart(_ context.Context) error {
	opts := badger.DefaultOptions(b.cfg.Dir).WithLogger(nil)
	if b.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger: %w", err)
	}

	b.db = db
	b.log.Infow("badger ready", "dir", b.cfg.Dir, "in_memory", b.cfg.InMemory)
	return nil
}

// OnStop closes the database.
func (b *Badger) OnStop(_ context.Context) error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Get returns the value stored under key.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, entities.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (b *Badger) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Badger) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}
