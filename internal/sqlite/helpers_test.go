package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// setupBackend attaches a backend over a fresh data directory and detaches
// it when the test ends.
func setupBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	err := b.Attach(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: dir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func newProduct(name string) types.Product {
	return types.Product{
		Name:        name,
		Description: name + " description",
		Weight:      decimal.RequireFromString("12.75"),
		Height:      decimal.RequireFromString("0.5"),
		Width:       decimal.NewFromInt(3),
		Length:      decimal.RequireFromString("1.125"),
	}
}

func newOrder(status types.OrderStatus, created time.Time, productID int64) types.Order {
	return types.Order{
		Status:      status,
		CreatedDate: created,
		UpdatedDate: created.Add(time.Hour),
		ProductID:   productID,
	}
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}

// mustCreateProduct inserts a product and returns its identity.
func mustCreateProduct(t *testing.T, b *Backend, name string) int64 {
	t.Helper()
	products, err := b.Products()
	require.NoError(t, err)
	id, err := products.Create(context.Background(), newProduct(name))
	require.NoError(t, err)
	return id
}
