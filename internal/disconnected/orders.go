package disconnected

import (
	"context"

	"github.com/mesh-intelligence/depot/pkg/types"
)

var (
	_ types.OrderRepository = (*Orders)(nil)
	_ types.Saver           = (*Orders)(nil)
)

// Orders is the disconnected order repository. Searches and bulk deletes run
// against the in-memory table; bulk deletes reach the store on Save.
type Orders struct {
	*Repository[types.Order]
}

// NewOrders creates an order repository over gw.
func NewOrders(gw types.Gateway[types.Order], opts ...Option) *Orders {
	return &Orders{Repository: NewRepository(gw, opts...)}
}

// Create stores rec with its dates normalized to UTC.
func (o *Orders) Create(ctx context.Context, rec types.Order) (int64, error) {
	return o.Repository.Create(ctx, rec.Normalized())
}

// Update replaces the order's fields with its dates normalized to UTC.
func (o *Orders) Update(ctx context.Context, id int64, rec types.Order) error {
	return o.Repository.Update(ctx, id, rec.Normalized())
}

// SearchByMonth returns orders created in the given month of any year.
func (o *Orders) SearchByMonth(ctx context.Context, month int) ([]types.Order, error) {
	if err := types.ValidateMonth(month); err != nil {
		return nil, err
	}
	return o.List(ctx, types.OrdersInMonth(month))
}

// SearchByYear returns orders created in the given year.
func (o *Orders) SearchByYear(ctx context.Context, year int) ([]types.Order, error) {
	return o.List(ctx, types.OrdersInYear(year))
}

// SearchByStatus returns orders in the given status.
func (o *Orders) SearchByStatus(ctx context.Context, status types.OrderStatus) ([]types.Order, error) {
	if !status.Valid() {
		return nil, types.ErrInvalidStatus
	}
	return o.List(ctx, types.OrdersWithStatus(status))
}

// SearchByProduct returns orders referencing the given product.
func (o *Orders) SearchByProduct(ctx context.Context, productID int64) ([]types.Order, error) {
	return o.List(ctx, types.OrdersForProduct(productID))
}

// SearchByDateRange returns orders created within r.
func (o *Orders) SearchByDateRange(ctx context.Context, r types.DateRange) ([]types.Order, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return o.List(ctx, types.OrdersCreatedIn(r))
}

// DeleteByMonth marks orders created in the given month for deletion.
func (o *Orders) DeleteByMonth(ctx context.Context, month int) (int, error) {
	if err := types.ValidateMonth(month); err != nil {
		return 0, err
	}
	return o.deleteWhere(ctx, types.OrdersInMonth(month))
}

// DeleteByYear marks orders created in the given year for deletion.
func (o *Orders) DeleteByYear(ctx context.Context, year int) (int, error) {
	return o.deleteWhere(ctx, types.OrdersInYear(year))
}

// DeleteByStatus marks orders in the given status for deletion.
func (o *Orders) DeleteByStatus(ctx context.Context, status types.OrderStatus) (int, error) {
	if !status.Valid() {
		return 0, types.ErrInvalidStatus
	}
	return o.deleteWhere(ctx, types.OrdersWithStatus(status))
}

// DeleteByProduct marks orders referencing the given product for deletion.
func (o *Orders) DeleteByProduct(ctx context.Context, productID int64) (int, error) {
	return o.deleteWhere(ctx, types.OrdersForProduct(productID))
}

// RemapProducts points orders that reference temporary product identities
// at the identities the store assigned, as reported by Products.Assigned or
// a product SyncResult. It returns the number of orders changed. Call it after saving
// products and before saving orders.
func (o *Orders) RemapProducts(assigned map[int64]int64) (int, error) {
	if len(assigned) == 0 {
		return 0, nil
	}
	changed := 0
	for _, row := range o.table.Rows() {
		rec := row.Record()
		durable, ok := assigned[rec.ProductID]
		if !ok || !row.State().Live() {
			continue
		}
		rec.ProductID = durable
		if err := row.MarkModified(rec); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
