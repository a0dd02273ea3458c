// Package sqlite implements the product and order store on SQLite. Each table
// accessor serves both as the connected repository (one statement per call)
// and as the gateway that disconnected repositories fill from and save to.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// DatabaseFile is the name of the database file inside DataDir.
const DatabaseFile = "depot.db"

// Backend owns the database handle and the table accessors.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger

	products *ProductsTable
	orders   *OrdersTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.products = &ProductsTable{backend: b}
	b.orders = &OrdersTable{backend: b}
	return b
}

// Attach opens the database in config.DataDir, creating the directory and
// schema when missing. Opening retries the connection with exponential
// backoff until config.ConnectTimeout elapses.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(ctx context.Context, config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return &types.GatewayError{Op: "open", Err: err}
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between
	// our own statements.
	db.SetMaxOpenConns(1)

	if err := b.ping(ctx, db, config.GetConnectTimeout()); err != nil {
		db.Close()
		return &types.GatewayError{Op: "open", Err: err}
	}

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return &types.GatewayError{Op: "open", Err: err}
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("database attached", zap.String("path", dbPath))
	return nil
}

// ping checks the connection, retrying with exponential backoff until
// timeout elapses.
func (b *Backend) ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			return struct{}{}, db.PingContext(ctx)
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			b.logger.Warn("database ping failed", zap.Error(err), zap.Duration("retry_in", next))
		}),
	)
	return err
}

// Detach closes the database. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Products returns the product table accessor.
// Returns ErrDetached if the backend is not attached.
func (b *Backend) Products() (*ProductsTable, error) {
	if _, err := b.conn(); err != nil {
		return nil, err
	}
	return b.products, nil
}

// Orders returns the order table accessor.
// Returns ErrDetached if the backend is not attached.
func (b *Backend) Orders() (*OrdersTable, error) {
	if _, err := b.conn(); err != nil {
		return nil, err
	}
	return b.orders, nil
}

// conn returns the open database handle.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}
