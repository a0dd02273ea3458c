package types

import (
	"fmt"
	"strings"
)

// SyncResult summarizes one synchronization pass.
type SyncResult struct {
	Kind      string `json:"kind"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
	Discarded int    `json:"discarded"`

	// Assigned maps temporary identities to the identities the store
	// assigned on insert.
	Assigned map[int64]int64 `json:"assigned,omitempty"`
}

// Operations returns the number of gateway calls the pass issued.
func (r SyncResult) Operations() int {
	return r.Inserted + r.Updated + r.Deleted
}

// Resolve maps a temporary identity to its assigned identity. Identities not
// assigned in this pass are returned unchanged.
func (r SyncResult) Resolve(id int64) int64 {
	if assigned, ok := r.Assigned[id]; ok {
		return assigned
	}
	return id
}

// SnapshotResult counts the records written by an export or loaded by an
// import.
type SnapshotResult struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Skipped  int `json:"skipped"`
}

// GatewayError reports a failed backing store call: connectivity, constraint
// violations, or malformed rows.
type GatewayError struct {
	Kind string // entity kind, e.g. "products"
	Op   string // fetch, insert, update, delete
	ID   int64  // record identity, zero when not applicable
	Err  error
}

func (e *GatewayError) Error() string {
	var b strings.Builder
	b.WriteString("gateway")
	if e.Kind != "" {
		b.WriteString(" " + e.Kind)
	}
	b.WriteString(" " + e.Op)
	if e.ID != 0 {
		fmt.Fprintf(&b, " %d", e.ID)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PartialSyncError reports a synchronization pass that stopped at a failing
// row. Rows in Committed reached the store and are Unchanged; the failing row
// and every row after it keep their dirty state.
//
// Committed holds store identities: a row inserted in this pass appears under
// the identity the store assigned, not the temporary one Create returned.
// FailedID is the identity the failing row had when the pass reached it, so
// for an Added row it is the temporary identity returned by Create.
type PartialSyncError struct {
	Kind        string
	Committed   []int64 // store identities committed before the failure
	FailedID    int64   // identity of the failing row; temporary for an Added row
	FailedState string  // row state of the failing row
	Err         error
}

func (e *PartialSyncError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sync %s aborted at %s row %d after %d committed", e.Kind, e.FailedState, e.FailedID, len(e.Committed))
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *PartialSyncError) Unwrap() error { return e.Err }
