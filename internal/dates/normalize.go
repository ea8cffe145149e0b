package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date layouts used by warehouse feeds. Raw subsidiary-ledger postings carry
// dates as YYYYMMDD strings; files that already went through preprocessing use
// ISO dates instead.
const (
	LayoutRawPosting = "20060102"
	LayoutProcessed  = "2006-01-02"
)

// ErrUnparseableColumn reports that a date column could not be normalized.
// Callers are expected to keep the column's original string values and flag
// the affected account rather than fail the whole batch.
var ErrUnparseableColumn = errors.New("dates: unparseable date column")

// ParseDate parses a single date string using the given layout.
func ParseDate(value, layout string) (civil.Date, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return civil.Date{}, fmt.Errorf("ParseDate: empty value")
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return civil.Date{}, fmt.Errorf("ParseDate: %q with layout %q: %w", value, layout, err)
	}
	return civil.DateOf(t), nil
}

// NormalizeColumn parses every value of one date column. If any non-empty
// value fails to parse, the whole column is rejected with
// ErrUnparseableColumn so the caller can leave it as originally received.
// Empty values map to the zero civil.Date.
func NormalizeColumn(values []string, layout string) ([]civil.Date, error) {
	out := make([]civil.Date, len(values))
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		d, err := ParseDate(v, layout)
		if err != nil {
			return nil, fmt.Errorf("NormalizeColumn: value %d: %w", i, ErrUnparseableColumn)
		}
		out[i] = d
	}
	return out, nil
}
