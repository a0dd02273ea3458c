package sqlite

import (
	"context"
	"database/sql"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Gateway[types.Product] = (*ProductsTable)(nil)
	_ types.ProductRepository      = (*ProductsTable)(nil)
)

const productColumns = "product_id, name, description, weight, height, width, length"

// ProductsTable accesses the products table.
type ProductsTable struct {
	backend *Backend
}

// Kind returns the entity kind.
func (pt *ProductsTable) Kind() string { return types.KindProducts }

// FetchAll returns every product in identity order.
func (pt *ProductsTable) FetchAll(ctx context.Context) ([]types.Product, error) {
	return pt.query(ctx, "fetch", nil)
}

// Get retrieves a product by identity.
func (pt *ProductsTable) Get(ctx context.Context, id int64) (types.Product, error) {
	if id <= 0 {
		return types.Product{}, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return types.Product{}, err
	}
	row := db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE product_id = ?", id)
	p, err := hydrateProduct(row)
	if err != nil {
		return types.Product{}, storeError(types.KindProducts, "get", id, err)
	}
	return p, nil
}

// Create validates rec and inserts it.
func (pt *ProductsTable) Create(ctx context.Context, rec types.Product) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	return pt.Insert(ctx, rec)
}

// Insert stores rec under a new store-assigned identity. The identity on rec
// is ignored.
func (pt *ProductsTable) Insert(ctx context.Context, rec types.Product) (int64, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO products (name, description, weight, height, width, length) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Name, rec.Description, rec.Weight, rec.Height, rec.Width, rec.Length,
	)
	if err != nil {
		return 0, storeError(types.KindProducts, "insert", 0, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeError(types.KindProducts, "insert", 0, err)
	}
	return id, nil
}

// Update replaces the fields of the product with the given identity.
// Returns ErrNotFound if no such product exists.
func (pt *ProductsTable) Update(ctx context.Context, id int64, rec types.Product) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"UPDATE products SET name = ?, description = ?, weight = ?, height = ?, width = ?, length = ? WHERE product_id = ?",
		rec.Name, rec.Description, rec.Weight, rec.Height, rec.Width, rec.Length, id,
	)
	if err != nil {
		return storeError(types.KindProducts, "update", id, err)
	}
	return expectOneRow(types.KindProducts, "update", id, res)
}

// Delete removes the product with the given identity. A product still
// referenced by orders cannot be deleted.
// Returns ErrNotFound if no such product exists.
func (pt *ProductsTable) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM products WHERE product_id = ?", id)
	if err != nil {
		return storeError(types.KindProducts, "delete", id, err)
	}
	return expectOneRow(types.KindProducts, "delete", id, res)
}

// List returns the products matching filter in identity order.
func (pt *ProductsTable) List(ctx context.Context, filter types.Filter[types.Product]) ([]types.Product, error) {
	return pt.query(ctx, "list", filter)
}

func (pt *ProductsTable) query(ctx context.Context, op string, filter types.Filter[types.Product]) ([]types.Product, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY product_id")
	if err != nil {
		return nil, storeError(types.KindProducts, op, 0, err)
	}
	defer rows.Close()

	var out []types.Product
	for rows.Next() {
		p, err := hydrateProduct(rows)
		if err != nil {
			return nil, storeError(types.KindProducts, op, 0, err)
		}
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(types.KindProducts, op, 0, err)
	}
	return out, nil
}

// hydrateProduct scans one products row.
func hydrateProduct(row scanner) (types.Product, error) {
	var p types.Product
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Weight, &p.Height, &p.Width, &p.Length); err != nil {
		return types.Product{}, err
	}
	p.Description = description.String
	return p, nil
}
