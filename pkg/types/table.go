package types

import (
	"context"
	"errors"
)

// Record is the constraint satisfied by every entity a repository stores.
// T is the record's own value type, so implementations return and compare
// values rather than pointers.
type Record[T any] interface {
	// Identity returns the record's identity. Zero means unset; negative
	// values are temporary identities assigned before synchronization.
	Identity() int64

	// WithIdentity returns a copy of the record carrying id.
	WithIdentity(id int64) T

	// Equal reports whether every field, identity included, matches other.
	Equal(other T) bool

	// Validate checks the record's fields.
	Validate() error
}

// Filter selects records for List. A nil Filter matches every record.
type Filter[T any] func(T) bool

// Match reports whether rec passes the filter.
func (f Filter[T]) Match(rec T) bool {
	return f == nil || f(rec)
}

// Repository provides uniform CRUD operations for a single entity kind. The
// connected and disconnected implementations expose the same shape.
type Repository[T any] interface {
	// Get retrieves the record with the given identity.
	// Returns ErrNotFound if no record exists with that identity.
	Get(ctx context.Context, id int64) (T, error)

	// Create stores a new record and returns its identity. The identity on
	// rec is ignored.
	Create(ctx context.Context, rec T) (int64, error)

	// Update replaces the fields of the record with the given identity.
	// Returns ErrNotFound if no record exists with that identity.
	Update(ctx context.Context, id int64, rec T) error

	// Delete removes the record with the given identity.
	// Returns ErrNotFound if no record exists with that identity.
	Delete(ctx context.Context, id int64) error

	// List returns every record matching filter. A nil filter returns every
	// record.
	List(ctx context.Context, filter Filter[T]) ([]T, error)
}

// ProductRepository is the caller surface for products.
type ProductRepository interface {
	Repository[Product]
}

// OrderRepository is the caller surface for orders, including the searches
// and bulk deletes keyed on date, status, and product.
type OrderRepository interface {
	Repository[Order]

	SearchByMonth(ctx context.Context, month int) ([]Order, error)
	SearchByYear(ctx context.Context, year int) ([]Order, error)
	SearchByStatus(ctx context.Context, status OrderStatus) ([]Order, error)
	SearchByProduct(ctx context.Context, productID int64) ([]Order, error)
	SearchByDateRange(ctx context.Context, r DateRange) ([]Order, error)

	DeleteByMonth(ctx context.Context, month int) (int, error)
	DeleteByYear(ctx context.Context, year int) (int, error)
	DeleteByStatus(ctx context.Context, status OrderStatus) (int, error)
	DeleteByProduct(ctx context.Context, productID int64) (int, error)
}

// Saver is implemented by disconnected repositories. Save pushes accumulated
// local changes to the backing store; Reset discards all local state so the
// next access refills from the store.
type Saver interface {
	Save(ctx context.Context) (SyncResult, error)
	Reset()
}

// Repository operation errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidID         = errors.New("invalid record ID")
	ErrInvalidData       = errors.New("invalid record data")
	ErrAlreadyFilled     = errors.New("table is already filled")
	ErrDuplicateID       = errors.New("duplicate record identity")
	ErrInvalidTransition = errors.New("invalid row state transition")
)

// Record validation errors.
var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidDimension = errors.New("dimension must not be negative")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrInvalidProduct   = errors.New("order must reference a product")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrInvalidRange     = errors.New("date range start must precede its end")
)
