package disconnected

import (
	"github.com/mesh-intelligence/depot/pkg/types"
)

var (
	_ types.ProductRepository = (*Products)(nil)
	_ types.Saver             = (*Products)(nil)
)

// Products is the disconnected product repository.
type Products struct {
	*Repository[types.Product]
}

// NewProducts creates a product repository over gw.
func NewProducts(gw types.Gateway[types.Product], opts ...Option) *Products {
	return &Products{Repository: NewRepository(gw, opts...)}
}
