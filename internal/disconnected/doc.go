// Package disconnected implements repositories backed by an in-memory record
// cache with deferred reconciliation.
//
// A Repository fills its Table from the backing store on first use, serves
// every later read and write from memory, and pushes the accumulated changes
// back in one pass when Save is called. Each Row carries a RowState that
// decides which store operation Save issues for it:
//
//	Unchanged --modify--> Modified --delete--> Deleted
//	    |                                         ^
//	    +-------------------delete----------------+
//	Added --modify--> Added --delete--> Discarded (purged, never sent)
//
// A successful Save moves Added and Modified rows to Unchanged and removes
// Deleted ones. Repositories have a single owner: two repositories over the
// same store hold independent copies and the last Save wins.
package disconnected
