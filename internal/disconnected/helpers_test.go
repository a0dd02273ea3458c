package disconnected

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// memGateway is an in-memory types.Gateway that records the calls it serves.
type memGateway[T types.Record[T]] struct {
	kind   string
	rows   map[int64]T
	nextID int64
	calls  []string
	fail   func(op string, id int64) error
}

func newMemGateway[T types.Record[T]](kind string, seed ...T) *memGateway[T] {
	g := &memGateway[T]{kind: kind, rows: make(map[int64]T), nextID: 100}
	for _, rec := range seed {
		g.rows[rec.Identity()] = rec
	}
	return g
}

func (g *memGateway[T]) Kind() string { return g.kind }

func (g *memGateway[T]) check(op string, id int64) error {
	g.calls = append(g.calls, fmt.Sprintf("%s %d", op, id))
	if g.fail != nil {
		if err := g.fail(op, id); err != nil {
			return &types.GatewayError{Kind: g.kind, Op: op, ID: id, Err: err}
		}
	}
	return nil
}

func (g *memGateway[T]) FetchAll(_ context.Context) ([]T, error) {
	if err := g.check("fetch", 0); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(g.rows))
	for id := range g.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.rows[id])
	}
	return out, nil
}

func (g *memGateway[T]) Insert(_ context.Context, rec T) (int64, error) {
	if err := g.check("insert", rec.Identity()); err != nil {
		return 0, err
	}
	g.nextID++
	g.rows[g.nextID] = rec.WithIdentity(g.nextID)
	return g.nextID, nil
}

func (g *memGateway[T]) Update(_ context.Context, id int64, rec T) error {
	if err := g.check("update", id); err != nil {
		return err
	}
	if _, ok := g.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", g.kind, id, types.ErrNotFound)
	}
	g.rows[id] = rec.WithIdentity(id)
	return nil
}

func (g *memGateway[T]) Delete(_ context.Context, id int64) error {
	if err := g.check("delete", id); err != nil {
		return err
	}
	if _, ok := g.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", g.kind, id, types.ErrNotFound)
	}
	delete(g.rows, id)
	return nil
}

// writes returns the calls that changed the store.
func (g *memGateway[T]) writes() []string {
	var out []string
	for _, c := range g.calls {
		if len(c) < 5 || c[:5] != "fetch" {
			out = append(out, c)
		}
	}
	return out
}

func product(id int64, name string) types.Product {
	return types.Product{
		ID:     id,
		Name:   name,
		Weight: decimal.RequireFromString("1.5"),
		Height: decimal.NewFromInt(2),
		Width:  decimal.NewFromInt(3),
		Length: decimal.NewFromInt(4),
	}
}

func order(id int64, status types.OrderStatus, created time.Time, productID int64) types.Order {
	return types.Order{
		ID:          id,
		Status:      status,
		CreatedDate: created,
		UpdatedDate: created,
		ProductID:   productID,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
