// Package badger provides an embedded LSM key-value backend for the store.
package badger

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/planner/internal/logger"
	"github.com/julianstephens/planner/internal/storage"
)

const keyPrefix = "doc:"

type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// DefaultConfig returns the persistent configuration for path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration that never touches disk.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger routes badger's internal logging through the application logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "backend", "badger")
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "backend", "badger")
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "backend", "badger")
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "backend", "badger")
}

type Store struct {
	cfg Config
	db  *badger.DB
}

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) open() error {
	if !s.cfg.InMemory && s.cfg.Path == "" {
		return errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if s.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(s.cfg.Path)
	}
	opts = opts.WithSyncWrites(s.cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if s.db != nil {
		return nil
	}
	if !s.cfg.InMemory {
		if err := os.MkdirAll(s.cfg.Path, 0750); err != nil {
			return fmt.Errorf("create database directory %s: %w", s.cfg.Path, err)
		}
	}
	return s.open()
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if !s.cfg.InMemory {
		if _, err := os.Stat(s.cfg.Path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'planner init' first")
		}
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	return value, err
}

func (s *Store) Put(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), value)
	})
}

// PutBatch writes all entries in one transaction.
func (s *Store) PutBatch(entries map[string][]byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			if err := txn.Set([]byte(keyPrefix+key), value); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
}

func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

func (s *Store) GetConfigPath() string {
	if s.cfg.InMemory {
		return ":memory:"
	}
	return s.cfg.Path
}

// RunGC reclaims value-log space. Returns nil when there was nothing to rewrite.
func (s *Store) RunGC(discardRatio float64) error {
	if s.cfg.InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}
