package library

import (
	"strings"

	"github.com/pkg/errors"
)

// Store persists the whole library state. Save always replaces everything
// that was stored before.
type Store interface {
	Load() (*LibraryData, error)
	Save(data *LibraryData) error
	Close() error
}

// Storage backends accepted by OpenStore.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenStore opens the store for backend at path.
func OpenStore(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewDatabase(path)
	default:
		return nil, errors.Errorf("unknown storage backend %q", backend)
	}
}
