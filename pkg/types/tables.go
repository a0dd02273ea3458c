package types

// Entity kinds served by the backing store. A kind names both the SQLite
// table and the label attached to logs and metrics.
const (
	KindProducts = "products"
	KindOrders   = "orders"
)

// StandardKinds lists all entity kinds in dependency order: products must be
// synchronized before the orders that reference them.
var StandardKinds = []string{
	KindProducts,
	KindOrders,
}
