// Package calendar implements the Philippine business-day calendar used to
// shift contractual due dates off Sundays and public holidays.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/scgc-mis/slrecon/internal/dates"
)

// ErrCalendarStalled reports that NextBusinessDay gave up after too many
// consecutive non-business days. A run of this length cannot occur with a
// well-formed holiday table, so hitting it means the calendar is misconfigured.
var ErrCalendarStalled = errors.New("calendar: no business day found within search window")

// maxAdvance bounds the NextBusinessDay scan.
const maxAdvance = 60

// Philippines is the business calendar for the Philippine jurisdiction.
// Sunday is the weekly off day. The zero value is ready to use and all
// methods are pure, so a single value may be shared across goroutines.
type Philippines struct{}

// IsNonBusinessDay reports whether the date is a Sunday or a holiday.
func (c Philippines) IsNonBusinessDay(d civil.Date) bool {
	return dates.Weekday(d) == time.Sunday || c.IsHoliday(d)
}

// IsHoliday reports whether the date is a Philippine public holiday.
func (c Philippines) IsHoliday(d civil.Date) bool {
	for _, h := range c.Holidays(d.Year) {
		if h == d {
			return true
		}
	}
	return false
}

// Holidays returns the regular and special non-working holidays for a year:
// the fixed national dates plus the Easter-bound Holy Week days.
func (Philippines) Holidays(year int) []civil.Date {
	fixed := []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},    // New Year's Day
		{time.April, 9},      // Araw ng Kagitingan
		{time.May, 1},        // Labour Day
		{time.June, 12},      // Independence Day
		{time.August, 21},    // Ninoy Aquino Day
		{time.November, 1},   // All Saints' Day
		{time.November, 30},  // Bonifacio Day
		{time.December, 8},   // Immaculate Conception
		{time.December, 25},  // Christmas Day
		{time.December, 30},  // Rizal Day
		{time.December, 31},  // New Year's Eve
	}

	hs := make([]civil.Date, 0, len(fixed)+4)
	for _, f := range fixed {
		hs = append(hs, civil.Date{Year: year, Month: f.month, Day: f.day})
	}

	easter := easterSunday(year)
	hs = append(hs,
		easter.AddDays(-3), // Maundy Thursday
		easter.AddDays(-2), // Good Friday
		easter.AddDays(-1), // Black Saturday
		nationalHeroesDay(year),
	)
	return hs
}

// NextBusinessDay advances the date one calendar day at a time until it lands
// on a business day. The input is returned unchanged if it already qualifies.
func (c Philippines) NextBusinessDay(d civil.Date) (civil.Date, error) {
	start := d
	for i := 0; i <= maxAdvance; i++ {
		if !c.IsNonBusinessDay(d) {
			return d, nil
		}
		d = d.AddDays(1)
	}
	return civil.Date{}, fmt.Errorf("NextBusinessDay: from %s: %w", start, ErrCalendarStalled)
}

// nationalHeroesDay is the last Monday of August.
func nationalHeroesDay(year int) civil.Date {
	d := civil.Date{Year: year, Month: time.August, Day: 31}
	for dates.Weekday(d) != time.Monday {
		d = d.AddDays(-1)
	}
	return d
}

// easterSunday computes Gregorian Easter with the anonymous Gregorian
// (Meeus/Jones/Butcher) algorithm.
func easterSunday(year int) civil.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return civil.Date{Year: year, Month: time.Month(month), Day: day}
}
