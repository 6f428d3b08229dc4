package storage

import "errors"

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the persistence contract every backend implements. Values are opaque
// JSON documents; the Store above it owns the encoding.
type KV interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	// PutBatch writes every entry or none of them on transactional backends.
	PutBatch(entries map[string][]byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
