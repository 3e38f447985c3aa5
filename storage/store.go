// Package storage provides the device-local key-value capability the feed
// persists to: string keys, serialized text values, no transactions.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Open creates the store selected by backend under dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(filepath.Join(dataDir, "thinky.db"))
	case BackendPebble:
		return NewPebbleStore(filepath.Join(dataDir, "kv"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
