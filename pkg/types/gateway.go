package types

import "context"

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks -source=gateway.go

// Gateway is the backing store boundary for one entity kind. Insert returns
// the store-assigned identity. Update and Delete return an error wrapping
// ErrNotFound when the identity does not exist; every other failure is a
// *GatewayError.
type Gateway[T any] interface {
	Kind() string
	FetchAll(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, rec T) (int64, error)
	Update(ctx context.Context, id int64, rec T) error
	Delete(ctx context.Context, id int64) error
}
