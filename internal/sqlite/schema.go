package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL. Decimals are stored as their exact TEXT rendering and dates as
// fixed-width UTC timestamps (see timeLayout), so string comparison orders
// them chronologically.
const (
	createProducts = `CREATE TABLE IF NOT EXISTS products (
    product_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    weight TEXT NOT NULL,
    height TEXT NOT NULL,
    width TEXT NOT NULL,
    length TEXT NOT NULL
);`

	createOrders = `CREATE TABLE IF NOT EXISTS orders (
    order_id INTEGER PRIMARY KEY AUTOINCREMENT,
    status TEXT NOT NULL,
    created_date TEXT NOT NULL,
    updated_date TEXT NOT NULL,
    product_id INTEGER NOT NULL,
    FOREIGN KEY (product_id) REFERENCES products(product_id)
);`
)

// Index DDL for the order searches.
const (
	idxOrdersStatus  = `CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);`
	idxOrdersProduct = `CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id);`
	idxOrdersCreated = `CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_date);`
)

// schemaDDL lists all statements in dependency order.
var schemaDDL = []string{
	createProducts,
	createOrders,
	idxOrdersStatus,
	idxOrdersProduct,
	idxOrdersCreated,
}

// createSchema applies schemaDDL in one transaction.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return tx.Commit()
}
