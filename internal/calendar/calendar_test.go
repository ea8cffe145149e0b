package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func d(y int, m time.Month, day int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: day}
}

func TestIsNonBusinessDay(t *testing.T) {
	cal := Philippines{}

	tests := []struct {
		name string
		date civil.Date
		want bool
	}{
		{"ordinary weekday", d(2020, time.February, 17), false},
		{"saturday is a working day", d(2020, time.February, 15), false},
		{"sunday", d(2020, time.May, 17), true},
		{"new year", d(2020, time.January, 1), true},
		{"good friday 2020", d(2020, time.April, 10), true},
		{"maundy thursday 2020", d(2020, time.April, 9), true},
		{"black saturday 2020", d(2020, time.April, 11), true},
		{"national heroes day 2020", d(2020, time.August, 31), true},
		{"rizal day", d(2021, time.December, 30), true},
		{"day after easter", d(2020, time.April, 13), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsNonBusinessDay(tt.date); got != tt.want {
				t.Errorf("IsNonBusinessDay(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestHolidaysContainEasterBoundDates(t *testing.T) {
	cal := Philippines{}
	// Easter 2024 fell on March 31, so Good Friday is March 29.
	if !cal.IsHoliday(d(2024, time.March, 29)) {
		t.Error("expected 2024-03-29 (Good Friday) to be a holiday")
	}
	if cal.IsHoliday(d(2024, time.April, 10)) {
		t.Error("2024-04-10 is not a holiday")
	}
}

func TestNextBusinessDay(t *testing.T) {
	cal := Philippines{}

	tests := []struct {
		name string
		from civil.Date
		want civil.Date
	}{
		{"already a business day", d(2020, time.February, 17), d(2020, time.February, 17)},
		{"sunday rolls to monday", d(2020, time.May, 17), d(2020, time.May, 18)},
		{"year-end holiday run", d(2021, time.December, 30), d(2022, time.January, 3)},
		{"holy week", d(2020, time.April, 9), d(2020, time.April, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.NextBusinessDay(tt.from)
			if err != nil {
				t.Fatalf("NextBusinessDay(%s) returned error: %v", tt.from, err)
			}
			if got != tt.want {
				t.Errorf("NextBusinessDay(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestNextBusinessDayIdempotent(t *testing.T) {
	cal := Philippines{}
	for _, from := range []civil.Date{
		d(2020, time.May, 17),
		d(2020, time.April, 9),
		d(2021, time.December, 31),
		d(2020, time.February, 17),
	} {
		once, err := cal.NextBusinessDay(from)
		if err != nil {
			t.Fatalf("NextBusinessDay(%s): %v", from, err)
		}
		twice, err := cal.NextBusinessDay(once)
		if err != nil {
			t.Fatalf("NextBusinessDay(%s): %v", once, err)
		}
		if once != twice {
			t.Errorf("NextBusinessDay not idempotent from %s: %s then %s", from, once, twice)
		}
	}
}
