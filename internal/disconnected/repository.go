package disconnected

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Repository is the disconnected implementation of types.Repository for one
// entity kind. Reads and writes operate on the in-memory table; only the
// first access (fill) and Save reach the gateway.
type Repository[T types.Record[T]] struct {
	gateway types.Gateway[T]
	table   *Table[T]
	opts    options
	session string
}

// NewRepository creates a repository over gw. The table is filled lazily.
func NewRepository[T types.Record[T]](gw types.Gateway[T], opts ...Option) *Repository[T] {
	r := &Repository[T]{
		gateway: gw,
		table:   NewTable[T](),
		opts:    newOptions(opts),
		session: newSessionID(),
	}
	r.opts.logger = r.opts.logger.With(zap.String("session", r.session))
	return r
}

// newSessionID generates a UUID v7 that tags this repository's log lines.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Session returns the identifier attached to this repository's log lines.
func (r *Repository[T]) Session() string { return r.session }

// load fills the table from the gateway once. Gateway errors are returned
// unchanged.
func (r *Repository[T]) load(ctx context.Context) error {
	if r.table.Filled() {
		return nil
	}
	records, err := r.gateway.FetchAll(ctx)
	if err != nil {
		return err
	}
	if err := r.table.Fill(records); err != nil {
		return fmt.Errorf("filling %s: %w", r.gateway.Kind(), err)
	}
	r.opts.logger.Debug("table filled", zap.String("kind", r.gateway.Kind()), zap.Int("rows", len(records)))
	return nil
}

// Get returns the record with the given identity. Temporary identities
// returned by Create keep working after Save. Returns ErrNotFound if the
// record is absent or deleted.
func (r *Repository[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if id == 0 {
		return zero, types.ErrInvalidID
	}
	if err := r.load(ctx); err != nil {
		return zero, err
	}
	row, ok := r.table.Get(id)
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", r.gateway.Kind(), id, types.ErrNotFound)
	}
	return row.Record(), nil
}

// Create adds rec as a new row and returns its temporary identity. The store
// assigns the durable identity on Save; SyncResult.Assigned and Assigned map
// one to the other.
func (r *Repository[T]) Create(ctx context.Context, rec T) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	if err := r.load(ctx); err != nil {
		return 0, err
	}
	row := r.table.Insert(rec)
	return row.Identity(), nil
}

// Update replaces the fields of the record with the given identity. Writing
// the current values back leaves the row unchanged.
func (r *Repository[T]) Update(ctx context.Context, id int64, rec T) error {
	if id == 0 {
		return types.ErrInvalidID
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := r.load(ctx); err != nil {
		return err
	}
	return r.table.Update(id, rec)
}

// Delete marks the record with the given identity for deletion. It
// disappears from reads at once and from the store on Save.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return types.ErrInvalidID
	}
	if err := r.load(ctx); err != nil {
		return err
	}
	return r.table.Delete(id)
}

// List returns the live records matching filter in table order.
func (r *Repository[T]) List(ctx context.Context, filter types.Filter[T]) ([]T, error) {
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r.table.List(filter), nil
}

// deleteWhere marks every live record matching filter for deletion and
// returns how many there were.
func (r *Repository[T]) deleteWhere(ctx context.Context, filter types.Filter[T]) (int, error) {
	if err := r.load(ctx); err != nil {
		return 0, err
	}
	matched := r.table.List(filter)
	for _, rec := range matched {
		if err := r.table.Delete(rec.Identity()); err != nil {
			return 0, err
		}
	}
	return len(matched), nil
}

// Save reconciles local changes with the store. A repository that was never
// filled has nothing to push and issues no gateway call.
func (r *Repository[T]) Save(ctx context.Context) (types.SyncResult, error) {
	if !r.table.Filled() {
		return types.SyncResult{Kind: r.gateway.Kind()}, nil
	}
	return Synchronize(ctx, r.table, r.gateway, WithLogger(r.opts.logger), WithMetrics(r.opts.metrics))
}

// Reset discards every local change. The next access refills from the store.
func (r *Repository[T]) Reset() {
	dropped := len(r.table.Dirty())
	r.table.Reset()
	r.opts.logger.Info("local changes discarded", zap.String("kind", r.gateway.Kind()), zap.Int("dirty_rows", dropped))
}

// Assigned returns every temporary-to-store identity mapping made by Saves
// since the last Reset, including those from a Save that stopped part way.
func (r *Repository[T]) Assigned() map[int64]int64 {
	return r.table.Assigned()
}

// Pending returns the number of rows waiting for Save.
func (r *Repository[T]) Pending() int {
	return len(r.table.Dirty())
}
