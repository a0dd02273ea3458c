package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/depot/pkg/types"
)

// now is the clock used for order timestamps.
var now = time.Now

// parseID parses a record identity argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%q: %w", arg, types.ErrInvalidID)
	}
	return id, nil
}

// parseDecimal parses a dimension flag value.
func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("--%s %q: %w", name, value, types.ErrInvalidData)
	}
	return d, nil
}

// dateLayouts lists the accepted date flag formats, most specific first.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// parseDate parses a date flag value. Dates without a zone are UTC.
func parseDate(name, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("--%s %q: %w", name, value, types.ErrInvalidData)
}
