package disconnected

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// Synchronize pushes every dirty row of table to gw, walking rows in
// insertion order and issuing exactly one gateway call per dirty row:
//
//	Added     -> Insert; the row takes the store identity and becomes Unchanged
//	Modified  -> Update; the row becomes Unchanged
//	Deleted   -> Delete; the row is removed from the table
//	Discarded -> no call; the row is removed from the table
//
// Insertion order puts a row created in this session ahead of later rows that
// reference it.
//
// The first gateway failure stops the pass and is returned inside a
// *types.PartialSyncError. Rows committed before it stay committed; the
// failing row and every row after it keep their state, so calling
// Synchronize again resumes where this pass stopped. Nothing is retried.
func Synchronize[T types.Record[T]](ctx context.Context, table *Table[T], gw types.Gateway[T], opts ...Option) (types.SyncResult, error) {
	o := newOptions(opts)
	kind := gw.Kind()
	start := time.Now()

	result := types.SyncResult{Kind: kind}
	var committed []int64

	for i := 0; i < len(table.rows); {
		row := table.rows[i]
		id := row.Identity()

		var err error
		switch row.state {
		case Unchanged:
			i++
			continue

		case Added:
			var assigned int64
			assigned, err = gw.Insert(ctx, row.record)
			if err == nil {
				err = row.accept(assigned)
			}
			if err == nil {
				if result.Assigned == nil {
					result.Assigned = make(map[int64]int64)
				}
				result.Assigned[id] = assigned
				table.alias(id, assigned)
				result.Inserted++
				committed = append(committed, assigned)
				o.metrics.recordOperation(ctx, kind, opInsert)
				i++
			}

		case Modified:
			err = gw.Update(ctx, id, row.record)
			if err == nil {
				err = row.accept(id)
			}
			if err == nil {
				result.Updated++
				committed = append(committed, id)
				o.metrics.recordOperation(ctx, kind, opUpdate)
				i++
			}

		case Deleted:
			err = gw.Delete(ctx, id)
			if errors.Is(err, types.ErrNotFound) {
				// Already gone from the store; the row reached its end state.
				o.logger.Debug("delete found no row", zap.String("kind", kind), zap.Int64("id", id))
				err = nil
			}
			if err == nil {
				table.rows = append(table.rows[:i], table.rows[i+1:]...)
				result.Deleted++
				committed = append(committed, id)
				o.metrics.recordOperation(ctx, kind, opDelete)
			}

		case Discarded:
			table.rows = append(table.rows[:i], table.rows[i+1:]...)
			result.Discarded++

		default:
			err = fmt.Errorf("row %d in %s: %w", id, row.state, types.ErrInvalidTransition)
		}

		if err != nil {
			o.metrics.recordFailure(ctx, kind)
			o.metrics.recordDuration(ctx, kind, time.Since(start))
			o.logger.Warn("synchronization aborted",
				zap.String("kind", kind),
				zap.Int64("failed_id", id),
				zap.Stringer("failed_state", row.state),
				zap.Int("committed", len(committed)),
				zap.Error(err))
			return result, &types.PartialSyncError{
				Kind:        kind,
				Committed:   committed,
				FailedID:    id,
				FailedState: row.state.String(),
				Err:         err,
			}
		}
	}

	o.metrics.recordDuration(ctx, kind, time.Since(start))
	if result.Operations() > 0 || result.Discarded > 0 {
		o.logger.Info("synchronized",
			zap.String("kind", kind),
			zap.Int("inserted", result.Inserted),
			zap.Int("updated", result.Updated),
			zap.Int("deleted", result.Deleted),
			zap.Int("discarded", result.Discarded),
			zap.Duration("elapsed", time.Since(start)))
	}
	return result, nil
}
