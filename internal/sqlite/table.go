package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// timeLayout renders UTC instants at fixed width so stored dates sort
// lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// notFound returns an error wrapping ErrNotFound for kind and id.
func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, types.ErrNotFound)
}

// storeError wraps a database failure. sql.ErrNoRows becomes ErrNotFound.
func storeError(kind, op string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}
	return &types.GatewayError{Kind: kind, Op: op, ID: id, Err: err}
}

// expectOneRow maps a zero-row UPDATE or DELETE to ErrNotFound.
func expectOneRow(kind, op string, id int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeError(kind, op, id, err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
