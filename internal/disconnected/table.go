package disconnected

import (
	"fmt"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Table is an insertion-ordered, in-memory collection of tracked rows for one
// entity kind. It is filled once from the store and mutated locally; nothing
// in Table touches the store.
//
// A Table has a single owner and is not safe for concurrent use.
type Table[T types.Record[T]] struct {
	rows     []*Row[T]
	filled   bool
	nextTemp int64 // next temporary identity, counts down from -1

	// aliases maps temporary identities of inserted rows to the identities
	// the store assigned. It spans every synchronization since the last
	// Reset, so a temporary identity stays usable after Save.
	aliases map[int64]int64
}

// NewTable returns an empty, unfilled table.
func NewTable[T types.Record[T]]() *Table[T] {
	return &Table[T]{nextTemp: -1}
}

// Fill loads records as Unchanged rows. Fill is one-shot: a second call
// returns ErrAlreadyFilled whatever the table holds, since refilling would
// clobber uncommitted local changes. A table that already holds local rows
// cannot be filled either. Records must carry distinct, assigned identities.
func (t *Table[T]) Fill(records []T) error {
	if t.filled {
		return types.ErrAlreadyFilled
	}
	if len(t.rows) > 0 {
		return fmt.Errorf("filling a table holding %d local rows: %w", len(t.rows), types.ErrInvalidTransition)
	}
	seen := make(map[int64]bool, len(records))
	rows := make([]*Row[T], 0, len(records))
	for _, rec := range records {
		id := rec.Identity()
		if id <= 0 {
			return fmt.Errorf("filling row %d: %w", id, types.ErrInvalidID)
		}
		if seen[id] {
			return fmt.Errorf("filling row %d: %w", id, types.ErrDuplicateID)
		}
		seen[id] = true
		rows = append(rows, markUnchanged(rec))
	}
	t.rows = rows
	t.filled = true
	return nil
}

// Filled reports whether Fill has succeeded since the last Reset.
func (t *Table[T]) Filled() bool { return t.filled }

// Reset clears every row and the filled flag, permitting a fresh Fill.
func (t *Table[T]) Reset() {
	t.rows = nil
	t.filled = false
	t.nextTemp = -1
	t.aliases = nil
}

// Find returns the first live row whose record matches pred.
func (t *Table[T]) Find(pred types.Filter[T]) (*Row[T], bool) {
	for _, row := range t.rows {
		if row.state.Live() && pred.Match(row.record) {
			return row, true
		}
	}
	return nil, false
}

// Get returns the live row with the given identity. A temporary identity
// whose row was inserted by an earlier synchronization resolves to the row's
// store identity.
func (t *Table[T]) Get(id int64) (*Row[T], bool) {
	id = t.Resolve(id)
	return t.Find(func(rec T) bool { return rec.Identity() == id })
}

// Resolve returns the store identity assigned to a temporary identity, or id
// unchanged if none was assigned since the last Reset.
func (t *Table[T]) Resolve(id int64) int64 {
	if durable, ok := t.aliases[id]; ok {
		return durable
	}
	return id
}

// Assigned returns every temporary-to-store identity mapping recorded since
// the last Reset.
func (t *Table[T]) Assigned() map[int64]int64 {
	out := make(map[int64]int64, len(t.aliases))
	for temp, durable := range t.aliases {
		out[temp] = durable
	}
	return out
}

// alias records that the row inserted under temp now has the store
// identity durable.
func (t *Table[T]) alias(temp, durable int64) {
	if t.aliases == nil {
		t.aliases = make(map[int64]int64)
	}
	t.aliases[temp] = durable
}

// Insert appends rec as an Added row under a fresh temporary identity.
func (t *Table[T]) Insert(rec T) *Row[T] {
	row := MarkAdded(rec.WithIdentity(t.nextTemp))
	t.nextTemp--
	t.rows = append(t.rows, row)
	return row
}

// Update replaces the fields of the live row with the given identity.
// Returns ErrNotFound if there is none.
func (t *Table[T]) Update(id int64, rec T) error {
	row, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("updating row %d: %w", id, types.ErrNotFound)
	}
	return row.MarkModified(rec)
}

// Delete marks the live row with the given identity as deleted. A row that
// was never synchronized is purged at once. Returns ErrNotFound if there is
// no such row.
func (t *Table[T]) Delete(id int64) error {
	row, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("deleting row %d: %w", id, types.ErrNotFound)
	}
	if err := row.MarkDeleted(); err != nil {
		return err
	}
	if row.state == Discarded {
		t.remove(row)
	}
	return nil
}

// List returns the records of every live row matching filter, in insertion
// order.
func (t *Table[T]) List(filter types.Filter[T]) []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if row.state.Live() && filter.Match(row.record) {
			out = append(out, row.record)
		}
	}
	return out
}

// Len returns the number of physically present rows, deleted ones included.
func (t *Table[T]) Len() int { return len(t.rows) }

// Rows returns the physically present rows in insertion order.
func (t *Table[T]) Rows() []*Row[T] {
	out := make([]*Row[T], len(t.rows))
	copy(out, t.rows)
	return out
}

// Dirty returns the rows whose state differs from Unchanged.
func (t *Table[T]) Dirty() []*Row[T] {
	var out []*Row[T]
	for _, row := range t.rows {
		if row.IsDirty() {
			out = append(out, row)
		}
	}
	return out
}

// remove drops row from the table.
func (t *Table[T]) remove(row *Row[T]) {
	for i, r := range t.rows {
		if r == row {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return
		}
	}
}
