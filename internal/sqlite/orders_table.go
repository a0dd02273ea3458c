package sqlite

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Gateway[types.Order] = (*OrdersTable)(nil)
	_ types.OrderRepository      = (*OrdersTable)(nil)
)

const orderColumns = "order_id, status, created_date, updated_date, product_id"

// Month and year expressions over the fixed-width created_date column.
const (
	createdMonth = "CAST(substr(created_date, 6, 2) AS INTEGER)"
	createdYear  = "CAST(substr(created_date, 1, 4) AS INTEGER)"
)

// OrdersTable accesses the orders table. Searches and bulk deletes run as
// single SQL statements.
type OrdersTable struct {
	backend *Backend
}

// Kind returns the entity kind.
func (ot *OrdersTable) Kind() string { return types.KindOrders }

// FetchAll returns every order in identity order.
func (ot *OrdersTable) FetchAll(ctx context.Context) ([]types.Order, error) {
	return ot.query(ctx, "fetch", "", nil)
}

// Get retrieves an order by identity.
func (ot *OrdersTable) Get(ctx context.Context, id int64) (types.Order, error) {
	if id <= 0 {
		return types.Order{}, types.ErrInvalidID
	}
	db, err := ot.backend.conn()
	if err != nil {
		return types.Order{}, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id = ?", id)
	o, err := hydrateOrder(row)
	if err != nil {
		return types.Order{}, storeError(types.KindOrders, "get", id, err)
	}
	return o, nil
}

// Create validates rec and inserts it.
func (ot *OrdersTable) Create(ctx context.Context, rec types.Order) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	return ot.Insert(ctx, rec)
}

// Insert stores rec under a new store-assigned identity. The identity on rec
// is ignored. An order referencing a missing product violates the foreign key
// and fails with a GatewayError.
func (ot *OrdersTable) Insert(ctx context.Context, rec types.Order) (int64, error) {
	db, err := ot.backend.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO orders (status, created_date, updated_date, product_id) VALUES (?, ?, ?, ?)",
		string(rec.Status), formatTime(rec.CreatedDate), formatTime(rec.UpdatedDate), rec.ProductID,
	)
	if err != nil {
		return 0, storeError(types.KindOrders, "insert", 0, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeError(types.KindOrders, "insert", 0, err)
	}
	return id, nil
}

// Update replaces the fields of the order with the given identity.
// Returns ErrNotFound if no such order exists.
func (ot *OrdersTable) Update(ctx context.Context, id int64, rec types.Order) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	db, err := ot.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE orders SET status = ?, created_date = ?, updated_date = ?, product_id = ? WHERE order_id = ?",
		string(rec.Status), formatTime(rec.CreatedDate), formatTime(rec.UpdatedDate), rec.ProductID, id,
	)
	if err != nil {
		return storeError(types.KindOrders, "update", id, err)
	}
	return expectOneRow(types.KindOrders, "update", id, res)
}

// Delete removes the order with the given identity.
// Returns ErrNotFound if no such order exists.
func (ot *OrdersTable) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := ot.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM orders WHERE order_id = ?", id)
	if err != nil {
		return storeError(types.KindOrders, "delete", id, err)
	}
	return expectOneRow(types.KindOrders, "delete", id, res)
}

// List returns the orders matching filter in identity order.
func (ot *OrdersTable) List(ctx context.Context, filter types.Filter[types.Order]) ([]types.Order, error) {
	orders, err := ot.query(ctx, "list", "", nil)
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// SearchByMonth returns orders created in the given month of any year.
func (ot *OrdersTable) SearchByMonth(ctx context.Context, month int) ([]types.Order, error) {
	if err := types.ValidateMonth(month); err != nil {
		return nil, err
	}
	return ot.query(ctx, "search", createdMonth+" = ?", []any{month})
}

// SearchByYear returns orders created in the given year.
func (ot *OrdersTable) SearchByYear(ctx context.Context, year int) ([]types.Order, error) {
	return ot.query(ctx, "search", createdYear+" = ?", []any{year})
}

// SearchByStatus returns orders in the given status.
func (ot *OrdersTable) SearchByStatus(ctx context.Context, status types.OrderStatus) ([]types.Order, error) {
	if !status.Valid() {
		return nil, types.ErrInvalidStatus
	}
	return ot.query(ctx, "search", "status = ?", []any{string(status)})
}

// SearchByProduct returns orders referencing the given product.
func (ot *OrdersTable) SearchByProduct(ctx context.Context, productID int64) ([]types.Order, error) {
	return ot.query(ctx, "search", "product_id = ?", []any{productID})
}

// SearchByDateRange returns orders created within r.
func (ot *OrdersTable) SearchByDateRange(ctx context.Context, r types.DateRange) ([]types.Order, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return ot.query(ctx, "search", "created_date >= ? AND created_date < ?",
		[]any{formatTime(r.From), formatTime(r.To)})
}

// DeleteByMonth deletes orders created in the given month of any year.
func (ot *OrdersTable) DeleteByMonth(ctx context.Context, month int) (int, error) {
	if err := types.ValidateMonth(month); err != nil {
		return 0, err
	}
	return ot.deleteWhere(ctx, createdMonth+" = ?", month)
}

// DeleteByYear deletes orders created in the given year.
func (ot *OrdersTable) DeleteByYear(ctx context.Context, year int) (int, error) {
	return ot.deleteWhere(ctx, createdYear+" = ?", year)
}

// DeleteByStatus deletes orders in the given status.
func (ot *OrdersTable) DeleteByStatus(ctx context.Context, status types.OrderStatus) (int, error) {
	if !status.Valid() {
		return 0, types.ErrInvalidStatus
	}
	return ot.deleteWhere(ctx, "status = ?", string(status))
}

// DeleteByProduct deletes orders referencing the given product.
func (ot *OrdersTable) DeleteByProduct(ctx context.Context, productID int64) (int, error) {
	return ot.deleteWhere(ctx, "product_id = ?", productID)
}

func (ot *OrdersTable) deleteWhere(ctx context.Context, where string, args ...any) (int, error) {
	db, err := ot.backend.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM orders WHERE "+where, args...)
	if err != nil {
		return 0, storeError(types.KindOrders, "delete", 0, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError(types.KindOrders, "delete", 0, err)
	}
	return int(n), nil
}

func (ot *OrdersTable) query(ctx context.Context, op, where string, args []any) ([]types.Order, error) {
	db, err := ot.backend.conn()
	if err != nil {
		return nil, err
	}
	var q strings.Builder
	q.WriteString("SELECT " + orderColumns + " FROM orders")
	if where != "" {
		q.WriteString(" WHERE " + where)
	}
	q.WriteString(" ORDER BY order_id")

	rows, err := db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, storeError(types.KindOrders, op, 0, err)
	}
	defer rows.Close()

	var out []types.Order
	for rows.Next() {
		o, err := hydrateOrder(rows)
		if err != nil {
			return nil, storeError(types.KindOrders, op, 0, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(types.KindOrders, op, 0, err)
	}
	return out, nil
}

// hydrateOrder scans one orders row.
func hydrateOrder(row scanner) (types.Order, error) {
	var (
		o                types.Order
		status           string
		created, updated string
	)
	if err := row.Scan(&o.ID, &status, &created, &updated, &o.ProductID); err != nil {
		return types.Order{}, err
	}
	o.Status = types.OrderStatus(status)
	var err error
	if o.CreatedDate, err = parseTime(created); err != nil {
		return types.Order{}, err
	}
	if o.UpdatedDate, err = parseTime(updated); err != nil {
		return types.Order{}, err
	}
	return o, nil
}
