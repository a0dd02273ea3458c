// Package depot is the public entry point for the product and order store.
// Open attaches the backing store and hands out repositories in the
// configured mode:
//
//   - connected: every repository call is one statement against the store.
//   - disconnected: repositories fill an in-memory table on first use and
//     push accumulated changes when Save is called.
//
// Callers use the same types.ProductRepository and types.OrderRepository
// surface in both modes.
package depot

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/internal/disconnected"
	"github.com/mesh-intelligence/depot/internal/sqlite"
	"github.com/mesh-intelligence/depot/pkg/types"
)

// Version is the release version of the depot module.
const Version = "0.1.0"

type options struct {
	logger        *zap.Logger
	meterProvider metric.MeterProvider
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger shared by the store and its repositories.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMeterProvider enables synchronization metrics on the given provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Store owns the backing store and the repositories opened over it.
type Store struct {
	mode    string
	backend *sqlite.Backend
	logger  *zap.Logger

	products types.ProductRepository
	orders   types.OrderRepository

	// Set in disconnected mode only.
	localProducts *disconnected.Products
	localOrders   *disconnected.Orders
}

// Open attaches the store described by cfg and returns repositories in
// cfg's mode. The caller must Close the store.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*Store, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(o.logger))
	if err := backend.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	s := &Store{mode: cfg.GetMode(), backend: backend, logger: o.logger}
	if err := s.openRepositories(o); err != nil {
		backend.Detach()
		return nil, err
	}
	return s, nil
}

func (s *Store) openRepositories(o options) error {
	productsTable, err := s.backend.Products()
	if err != nil {
		return err
	}
	ordersTable, err := s.backend.Orders()
	if err != nil {
		return err
	}

	if s.mode == types.ModeConnected {
		s.products = productsTable
		s.orders = ordersTable
		return nil
	}

	metrics, err := disconnected.NewSyncMetrics(o.meterProvider)
	if err != nil {
		return fmt.Errorf("creating sync metrics: %w", err)
	}
	repoOpts := []disconnected.Option{
		disconnected.WithLogger(o.logger),
		disconnected.WithMetrics(metrics),
	}
	s.localProducts = disconnected.NewProducts(productsTable, repoOpts...)
	s.localOrders = disconnected.NewOrders(ordersTable, repoOpts...)
	s.products = s.localProducts
	s.orders = s.localOrders
	return nil
}

// Mode returns the repository mode, connected or disconnected.
func (s *Store) Mode() string { return s.mode }

// Products returns the product repository.
func (s *Store) Products() types.ProductRepository { return s.products }

// Orders returns the order repository.
func (s *Store) Orders() types.OrderRepository { return s.orders }

// Pending returns the number of local changes waiting for Save. It is always
// zero in connected mode.
func (s *Store) Pending() int {
	if s.mode == types.ModeConnected {
		return 0
	}
	return s.localProducts.Pending() + s.localOrders.Pending()
}

// Save pushes local changes to the store, products first. Orders that
// reference products created in this session are then pointed at the
// products' store identities, even when the product pass stopped part way,
// so a later Save can resume. In connected mode Save does nothing and returns
// no results.
//
// If products fail, orders are not saved; the returned results cover the
// passes that completed.
func (s *Store) Save(ctx context.Context) ([]types.SyncResult, error) {
	if s.mode == types.ModeConnected {
		return nil, nil
	}

	productResult, productErr := s.localProducts.Save(ctx)

	remapped, err := s.localOrders.RemapProducts(s.localProducts.Assigned())
	if err != nil {
		return nil, fmt.Errorf("remapping order products: %w", err)
	}
	if remapped > 0 {
		s.logger.Debug("orders remapped to saved products", zap.Int("orders", remapped))
	}
	if productErr != nil {
		return nil, productErr
	}
	results := []types.SyncResult{productResult}

	orderResult, err := s.localOrders.Save(ctx)
	if err != nil {
		return results, err
	}
	return append(results, orderResult), nil
}

// Reset discards every local change. It does nothing in connected mode.
func (s *Store) Reset() {
	if s.mode == types.ModeConnected {
		return
	}
	s.localProducts.Reset()
	s.localOrders.Reset()
}

// Export writes a JSONL snapshot of the store to dir. Unsaved local changes
// are not included.
func (s *Store) Export(ctx context.Context, dir string) (types.SnapshotResult, error) {
	return s.backend.Export(ctx, dir)
}

// Import loads a JSONL snapshot from dir into the store. Disconnected
// repositories that were already filled see the imported rows after Reset.
func (s *Store) Import(ctx context.Context, dir string) (types.SnapshotResult, error) {
	return s.backend.Import(ctx, dir)
}

// Close detaches the backing store. Unsaved local changes are lost.
func (s *Store) Close() error {
	if n := s.Pending(); n > 0 {
		s.logger.Warn("closing with unsaved changes", zap.Int("pending", n))
	}
	return s.backend.Detach()
}
