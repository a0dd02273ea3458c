// Package sqlite provides the public API for the SQLite backing store.
// Most callers should use pkg/depot; this package is for callers that want
// the connected tables and snapshot functions without a mode switch.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/internal/sqlite"
)

// Backend is the SQLite backing store. Attach it with a Config before use.
type Backend = sqlite.Backend

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/depot",
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		return sqlite.NewBackend()
	}
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
