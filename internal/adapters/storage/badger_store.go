package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*BadgerStore)(nil)

type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger database at path. An empty path
// opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // A mark is only acknowledged once it is on disk

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("badger store: get %s: %w", key, err)
	}

	return string(value), nil
}

func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger store: set %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Remove(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger store: remove %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("badger store: clear: %w", err)
	}
	return nil
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store: database is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
