// Package sqlite provides the public factory for the SQLite game store.
// Implementation details stay in internal/sqlite.
package sqlite

import (
	"github.com/btcsuite/btclog"

	"github.com/mesh-intelligence/poneglyph/internal/sqlite"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".poneglyph-db",
//	})
//	defer backend.Detach()
func NewBackend() *sqlite.Backend {
	return sqlite.NewBackend()
}

// NewBackendWithLogger is NewBackend with storage logging sent to log.
func NewBackendWithLogger(log btclog.Logger) *sqlite.Backend {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
