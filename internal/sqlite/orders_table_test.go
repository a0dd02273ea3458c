package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// seedOrders creates two products and five orders spread over two years.
func seedOrders(t *testing.T, b *Backend) (*OrdersTable, []int64, []int64) {
	t.Helper()
	ctx := context.Background()
	orders, err := b.Orders()
	require.NoError(t, err)

	p1 := mustCreateProduct(t, b, "crate")
	p2 := mustCreateProduct(t, b, "pallet")

	recs := []types.Order{
		newOrder(types.StatusDone, at(2024, time.March, 3), p1),
		newOrder(types.StatusLoading, at(2025, time.March, 9), p2),
		newOrder(types.StatusDone, at(2025, time.July, 1), p1),
		newOrder(types.StatusCancelled, at(2025, time.December, 31), p2),
		newOrder(types.StatusNotStarted, at(2026, time.January, 15), p1),
	}
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		id, err := orders.Create(ctx, rec)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return orders, []int64{p1, p2}, ids
}

func orderIDs(orders []types.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestOrdersCreateGet(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, err := b.Orders()
	require.NoError(t, err)
	pid := mustCreateProduct(t, b, "crate")

	est := time.FixedZone("EST", -5*60*60)
	created := time.Date(2024, time.December, 31, 22, 0, 0, 123456789, est)
	id, err := orders.Create(ctx, newOrder(types.StatusInProgress, created, pid))
	require.NoError(t, err)

	got, err := orders.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, got.Status)
	assert.True(t, got.CreatedDate.Equal(created))
	assert.Equal(t, time.UTC, got.CreatedDate.Location())
	assert.Equal(t, pid, got.ProductID)

	byYear, err := orders.SearchByYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, orderIDs(byYear), "years follow the UTC calendar")
}

func TestOrdersCreateErrors(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, err := b.Orders()
	require.NoError(t, err)

	_, err = orders.Create(ctx, newOrder("Lost", at(2025, 1, 1), 1))
	require.ErrorIs(t, err, types.ErrInvalidStatus)

	_, err = orders.Create(ctx, newOrder(types.StatusDone, at(2025, 1, 1), 0))
	require.ErrorIs(t, err, types.ErrInvalidProduct)

	_, err = orders.Create(ctx, newOrder(types.StatusDone, at(2025, 1, 1), 404))
	var gwErr *types.GatewayError
	require.ErrorAs(t, err, &gwErr, "missing product violates the foreign key")
	assert.Equal(t, "insert", gwErr.Op)
}

func TestOrdersUpdateDelete(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, pids, ids := seedOrders(t, b)

	rec, err := orders.Get(ctx, ids[0])
	require.NoError(t, err)
	rec.Status = types.StatusArrived
	rec.ProductID = pids[1]
	require.NoError(t, orders.Update(ctx, ids[0], rec))

	got, err := orders.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, got.Equal(rec))

	require.ErrorIs(t, orders.Update(ctx, 999, rec), types.ErrNotFound)
	require.NoError(t, orders.Delete(ctx, ids[0]))
	require.ErrorIs(t, orders.Delete(ctx, ids[0]), types.ErrNotFound)
	require.ErrorIs(t, orders.Delete(ctx, 0), types.ErrInvalidID)
}

func TestOrdersSearches(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, pids, ids := seedOrders(t, b)

	tests := []struct {
		name   string
		search func() ([]types.Order, error)
		want   []int64
	}{
		{"month", func() ([]types.Order, error) { return orders.SearchByMonth(ctx, 3) }, []int64{ids[0], ids[1]}},
		{"year", func() ([]types.Order, error) { return orders.SearchByYear(ctx, 2025) }, []int64{ids[1], ids[2], ids[3]}},
		{"status", func() ([]types.Order, error) { return orders.SearchByStatus(ctx, types.StatusDone) }, []int64{ids[0], ids[2]}},
		{"product", func() ([]types.Order, error) { return orders.SearchByProduct(ctx, pids[1]) }, []int64{ids[1], ids[3]}},
		{"date range", func() ([]types.Order, error) {
			return orders.SearchByDateRange(ctx, types.DateRange{From: at(2025, time.March, 9), To: at(2025, time.December, 31)})
		}, []int64{ids[1], ids[2]}},
		{"no match", func() ([]types.Order, error) { return orders.SearchByYear(ctx, 1999) }, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.search()
			require.NoError(t, err)
			assert.Equal(t, tt.want, orderIDs(got))
		})
	}
}

func TestOrdersSearchValidation(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, err := b.Orders()
	require.NoError(t, err)

	_, err = orders.SearchByMonth(ctx, 0)
	require.ErrorIs(t, err, types.ErrInvalidMonth)
	_, err = orders.SearchByStatus(ctx, "unknown")
	require.ErrorIs(t, err, types.ErrInvalidStatus)
	_, err = orders.SearchByDateRange(ctx, types.DateRange{From: at(2025, 2, 1), To: at(2025, 1, 1)})
	require.ErrorIs(t, err, types.ErrInvalidRange)
	_, err = orders.DeleteByMonth(ctx, 13)
	require.ErrorIs(t, err, types.ErrInvalidMonth)
	_, err = orders.DeleteByStatus(ctx, "")
	require.ErrorIs(t, err, types.ErrInvalidStatus)
}

func TestOrdersBulkDeletes(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	orders, pids, ids := seedOrders(t, b)

	n, err := orders.DeleteByStatus(ctx, types.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = orders.DeleteByMonth(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = orders.DeleteByYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = orders.DeleteByProduct(ctx, pids[1])
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	left, err := orders.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[4]}, orderIDs(left))
}
