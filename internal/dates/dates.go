package dates

import (
	"time"

	"cloud.google.com/go/civil"
)

// AddMonths adds a signed number of calendar months to a date. The resulting
// day-of-month is clamped to the last valid day of the target month, so adding
// one month to Jan 31 yields Feb 28 (or 29), never a rollover into March.
//
// Because of the clamp, AddMonths(AddMonths(d, n), -n) is not guaranteed to
// round-trip back to d.
func AddMonths(d civil.Date, months int) civil.Date {
	m := int(d.Month) - 1 + months
	year := d.Year + floorDiv(m, 12)
	month := time.Month(floorMod(m, 12) + 1)

	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weekday returns the day of week for a civil date.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// floorDiv is integer division rounding toward negative infinity, so month
// offsets behave correctly for negative values.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
