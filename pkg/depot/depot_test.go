package depot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/mesh-intelligence/depot/pkg/types"
)

func openStore(t *testing.T, dir, mode string, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: dir,
		Mode:    mode,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func crate(name string) types.Product {
	return types.Product{
		Name:   name,
		Weight: decimal.RequireFromString("2.5"),
		Height: decimal.NewFromInt(1),
		Width:  decimal.NewFromInt(1),
		Length: decimal.NewFromInt(1),
	}
}

func shipment(productID int64, created time.Time) types.Order {
	return types.Order{
		Status:      types.StatusNotStarted,
		CreatedDate: created,
		UpdatedDate: created,
		ProductID:   productID,
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), types.Config{Backend: types.BackendSQLite, Mode: "batch", DataDir: t.TempDir()})
	require.ErrorIs(t, err, types.ErrModeUnknown)
}

func TestConnectedStoreWritesThrough(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := openStore(t, dir, "")
	assert.Equal(t, types.ModeConnected, s.Mode())

	id, err := s.Products().Create(ctx, crate("crate"))
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, 0, s.Pending())

	results, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Nil(t, results)

	other := openStore(t, t.TempDir(), types.ModeConnected)
	_, err = other.Products().Get(ctx, id)
	require.ErrorIs(t, err, types.ErrNotFound, "separate data directories are separate stores")

	same, err := s.Products().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "crate", same.Name)
}

func TestDisconnectedStoreDefersWrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local := openStore(t, dir, types.ModeDisconnected)

	pid, err := local.Products().Create(ctx, crate("crate"))
	require.NoError(t, err)
	assert.Negative(t, pid)

	oid, err := local.Orders().Create(ctx, shipment(pid, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, 2, local.Pending())

	// Nothing has reached the store yet.
	direct := openStore(t, dir, types.ModeConnected)
	listed, err := direct.Products().List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)

	results, err := local.Save(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, types.KindProducts, results[0].Kind)
	assert.Equal(t, types.KindOrders, results[1].Kind)
	assert.Equal(t, 0, local.Pending())

	durableProduct := results[0].Resolve(pid)
	durableOrder := results[1].Resolve(oid)
	assert.Positive(t, durableProduct)
	assert.Positive(t, durableOrder)

	got, err := direct.Orders().Get(ctx, durableOrder)
	require.NoError(t, err)
	assert.Equal(t, durableProduct, got.ProductID, "order points at the saved product")

	again, err := local.Save(ctx)
	require.NoError(t, err)
	for _, r := range again {
		assert.Equal(t, 0, r.Operations())
	}
}

func TestDisconnectedSaveStopsOnProductFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	seed := openStore(t, dir, types.ModeConnected)
	pid, err := seed.Products().Create(ctx, crate("crate"))
	require.NoError(t, err)
	_, err = seed.Orders().Create(ctx, shipment(pid, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	local := openStore(t, dir, types.ModeDisconnected)
	require.NoError(t, local.Products().Delete(ctx, pid))
	_, err = local.Orders().Create(ctx, shipment(pid, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	results, err := local.Save(ctx)
	var partial *types.PartialSyncError
	require.ErrorAs(t, err, &partial, "deleting a referenced product violates the foreign key")
	assert.Equal(t, types.KindProducts, partial.Kind)
	assert.Nil(t, results)
	assert.Equal(t, 2, local.Pending(), "failed delete and unsaved order remain pending")

	local.Reset()
	assert.Equal(t, 0, local.Pending())
	p, err := local.Products().Get(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "crate", p.Name)
}

// rawDB opens a second connection to the store's database file.
func rawDB(t *testing.T, dir string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(dir, "depot.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDisconnectedSaveResumesAfterPartialProductFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	local := openStore(t, dir, types.ModeDisconnected)

	db := rawDB(t, dir)
	_, err := db.ExecContext(ctx, `CREATE TRIGGER refuse_boom BEFORE INSERT ON products
		WHEN NEW.name = 'boom' BEGIN SELECT RAISE(ABORT, 'refused'); END`)
	require.NoError(t, err)

	first, err := local.Products().Create(ctx, crate("a"))
	require.NoError(t, err)
	_, err = local.Products().Create(ctx, crate("boom"))
	require.NoError(t, err)
	oid, err := local.Orders().Create(ctx, shipment(first, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = local.Save(ctx)
	var partial *types.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, types.KindProducts, partial.Kind)
	require.Len(t, partial.Committed, 1)
	durable := partial.Committed[0]

	o, err := local.Orders().Get(ctx, oid)
	require.NoError(t, err)
	assert.Equal(t, durable, o.ProductID, "order follows the product that reached the store")

	_, err = db.ExecContext(ctx, `DROP TRIGGER refuse_boom`)
	require.NoError(t, err)

	results, err := local.Save(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Inserted)
	assert.Equal(t, 1, results[1].Inserted)
	assert.Equal(t, 0, local.Pending())

	p, err := local.Products().Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, durable, p.ID)

	connected := openStore(t, dir, types.ModeConnected)
	saved, err := connected.Orders().Get(ctx, results[1].Resolve(oid))
	require.NoError(t, err)
	assert.Equal(t, durable, saved.ProductID)
}

func TestDisconnectedStoreRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	s := openStore(t, t.TempDir(), types.ModeDisconnected, WithMeterProvider(mp))
	_, err := s.Products().Create(ctx, crate("crate"))
	require.NoError(t, err)
	_, err = s.Save(ctx)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	var names []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	assert.Contains(t, names, "depot_sync_operations_total")
	assert.Contains(t, names, "depot_sync_duration_seconds")
}

func TestStoreExportImport(t *testing.T) {
	ctx := context.Background()
	src := openStore(t, t.TempDir(), types.ModeConnected)
	pid, err := src.Products().Create(ctx, crate("crate"))
	require.NoError(t, err)
	_, err = src.Orders().Create(ctx, shipment(pid, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	snapshot := t.TempDir()
	exported, err := src.Export(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, types.SnapshotResult{Products: 1, Orders: 1}, exported)

	dst := openStore(t, t.TempDir(), types.ModeDisconnected)
	imported, err := dst.Import(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, exported, imported)

	orders, err := dst.Orders().SearchByProduct(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
