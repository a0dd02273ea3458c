package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

func TestProductsCreateGet(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)

	rec := newProduct("crate")
	rec.ID = 999
	id, err := products.Create(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "identity on the record is ignored")

	got, err := products.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Equal(rec.WithIdentity(id)), "got %+v", got)
	assert.Equal(t, "12.75", got.Weight.String())
}

func TestProductsGetErrors(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)

	_, err = products.Get(ctx, 0)
	require.ErrorIs(t, err, types.ErrInvalidID)

	_, err = products.Get(ctx, 42)
	require.ErrorIs(t, err, types.ErrNotFound)
	var gwErr *types.GatewayError
	assert.False(t, errors.As(err, &gwErr), "not found is not a gateway failure")
}

func TestProductsCreateValidates(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*types.Product)
		wantErr error
	}{
		{"blank name", func(p *types.Product) { p.Name = "  " }, types.ErrInvalidName},
		{"negative weight", func(p *types.Product) { p.Weight = decimal.NewFromInt(-1) }, types.ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newProduct("crate")
			tt.mutate(&rec)
			_, err := products.Create(ctx, rec)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductsUpdateDelete(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)

	id := mustCreateProduct(t, b, "crate")

	changed := newProduct("pallet")
	changed.Width = decimal.RequireFromString("7.25")
	require.NoError(t, products.Update(ctx, id, changed))
	require.NoError(t, products.Update(ctx, id, changed), "rewriting identical values succeeds")

	got, err := products.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pallet", got.Name)
	assert.True(t, got.Width.Equal(decimal.RequireFromString("7.25")))

	require.ErrorIs(t, products.Update(ctx, 77, changed), types.ErrNotFound)

	require.NoError(t, products.Delete(ctx, id))
	require.ErrorIs(t, products.Delete(ctx, id), types.ErrNotFound)
	_, err = products.Get(ctx, id)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestProductsDeleteReferencedFails(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)
	orders, err := b.Orders()
	require.NoError(t, err)

	pid := mustCreateProduct(t, b, "crate")
	_, err = orders.Create(ctx, newOrder(types.StatusNotStarted, at(2025, 1, 2), pid))
	require.NoError(t, err)

	err = products.Delete(ctx, pid)
	var gwErr *types.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, types.KindProducts, gwErr.Kind)
	assert.Equal(t, "delete", gwErr.Op)
	assert.Equal(t, pid, gwErr.ID)
}

func TestProductsListAndFetchAll(t *testing.T) {
	ctx := context.Background()
	b, _ := setupBackend(t)
	products, err := b.Products()
	require.NoError(t, err)

	for _, name := range []string{"crate", "pallet", "carton"} {
		mustCreateProduct(t, b, name)
	}

	all, err := products.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	got, err := products.List(ctx, func(p types.Product) bool { return p.Name[0] == 'c' })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "crate", got[0].Name)
	assert.Equal(t, "carton", got[1].Name)
}
