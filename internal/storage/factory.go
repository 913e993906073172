package storage

import (
	"errors"
	"fmt"
)

// ErrUnsupportedStore reports a backend name NewStore does not know, or
// sqlite in a binary built without the sqlite tag.
var ErrUnsupportedStore = errors.New("unsupported store backend")

// NewStore returns an uninitialized configuration store of the given kind.
// An empty kind selects the memory store.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, kind)
	}
}

// CloseIfSupported releases backends that hold resources.
func CloseIfSupported(store Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
