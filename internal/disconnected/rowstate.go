package disconnected

import (
	"fmt"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// RowState is the lifecycle tag of a tracked row.
type RowState int

// Row states. Discarded marks a row that was added and then deleted before
// synchronization; the store never sees it.
const (
	Unchanged RowState = iota
	Added
	Modified
	Deleted
	Discarded
)

var rowStateNames = map[RowState]string{
	Unchanged: "unchanged",
	Added:     "added",
	Modified:  "modified",
	Deleted:   "deleted",
	Discarded: "discarded",
}

func (s RowState) String() string {
	if name, ok := rowStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RowState(%d)", int(s))
}

// Dirty reports whether a row in this state must be reconciled.
func (s RowState) Dirty() bool {
	return s != Unchanged
}

// Live reports whether a row in this state is visible to reads.
func (s RowState) Live() bool {
	return s != Deleted && s != Discarded
}

// rowEvent is an input to the row state machine.
type rowEvent int

const (
	eventModify rowEvent = iota
	eventDelete
	eventAccept
)

var rowEventNames = map[rowEvent]string{
	eventModify: "modify",
	eventDelete: "delete",
	eventAccept: "accept",
}

// transitions lists every legal (state, event) pair. Anything missing is an
// illegal transition, e.g. modifying a Deleted row.
var transitions = map[RowState]map[rowEvent]RowState{
	Unchanged: {
		eventModify: Modified,
		eventDelete: Deleted,
		eventAccept: Unchanged,
	},
	Added: {
		eventModify: Added,
		eventDelete: Discarded,
		eventAccept: Unchanged,
	},
	Modified: {
		eventModify: Modified,
		eventDelete: Deleted,
		eventAccept: Unchanged,
	},
}

// next returns the state reached from s on ev, or ErrInvalidTransition.
func (s RowState) next(ev rowEvent) (RowState, error) {
	to, ok := transitions[s][ev]
	if !ok {
		return s, fmt.Errorf("%s on %s row: %w", rowEventNames[ev], s, types.ErrInvalidTransition)
	}
	return to, nil
}

// Row wraps one cached record with its lifecycle state.
type Row[T types.Record[T]] struct {
	record T
	state  RowState
}

// MarkAdded returns a new row in the Added state.
func MarkAdded[T types.Record[T]](rec T) *Row[T] {
	return &Row[T]{record: rec, state: Added}
}

// markUnchanged returns a row loaded from the store.
func markUnchanged[T types.Record[T]](rec T) *Row[T] {
	return &Row[T]{record: rec, state: Unchanged}
}

// Record returns the row's current record.
func (r *Row[T]) Record() T { return r.record }

// State returns the row's lifecycle state.
func (r *Row[T]) State() RowState { return r.state }

// Identity returns the identity of the row's record.
func (r *Row[T]) Identity() int64 { return r.record.Identity() }

// IsDirty reports whether the row differs from the store.
func (r *Row[T]) IsDirty() bool { return r.state.Dirty() }

// MarkModified replaces the row's record. The identity of rec is ignored.
// When rec is field-wise equal to the current record the call is a no-op and
// the state is left alone, so an Unchanged row stays Unchanged.
func (r *Row[T]) MarkModified(rec T) error {
	to, err := r.state.next(eventModify)
	if err != nil {
		return err
	}
	rec = rec.WithIdentity(r.record.Identity())
	if r.record.Equal(rec) {
		return nil
	}
	r.record = rec
	r.state = to
	return nil
}

// MarkDeleted moves the row to Deleted, or to Discarded when the row was
// never synchronized.
func (r *Row[T]) MarkDeleted() error {
	to, err := r.state.next(eventDelete)
	if err != nil {
		return err
	}
	r.state = to
	return nil
}

// accept records a successful synchronization. id is the store identity,
// which differs from the current one only for Added rows.
func (r *Row[T]) accept(id int64) error {
	to, err := r.state.next(eventAccept)
	if err != nil {
		return err
	}
	r.record = r.record.WithIdentity(id)
	r.state = to
	return nil
}
