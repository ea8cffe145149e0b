package dates

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		layout  string
		want    civil.Date
		wantErr bool
	}{
		{"raw posting", "20200117", LayoutRawPosting, d(2020, time.January, 17), false},
		{"processed feed", "2020-01-17", LayoutProcessed, d(2020, time.January, 17), false},
		{"whitespace tolerated", " 20200117 ", LayoutRawPosting, d(2020, time.January, 17), false},
		{"wrong layout", "2020-01-17", LayoutRawPosting, civil.Date{}, true},
		{"impossible day", "20200230", LayoutRawPosting, civil.Date{}, true},
		{"empty", "", LayoutRawPosting, civil.Date{}, true},
		{"garbage", "not-a-date", LayoutProcessed, civil.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value, tt.layout)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q, %q) error = %v, wantErr %v", tt.value, tt.layout, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseDate(%q, %q) = %s, want %s", tt.value, tt.layout, got, tt.want)
			}
		})
	}
}

func TestNormalizeColumn(t *testing.T) {
	got, err := NormalizeColumn([]string{"20200117", "", "20200216"}, LayoutRawPosting)
	if err != nil {
		t.Fatalf("NormalizeColumn returned error: %v", err)
	}
	want := []civil.Date{d(2020, time.January, 17), {}, d(2020, time.February, 16)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNormalizeColumnRejectsWholeColumn(t *testing.T) {
	// A single bad value rejects the column so the caller can keep the
	// original strings instead of a half-parsed mix.
	_, err := NormalizeColumn([]string{"20200117", "17JAN2020"}, LayoutRawPosting)
	if !errors.Is(err, ErrUnparseableColumn) {
		t.Fatalf("expected ErrUnparseableColumn, got %v", err)
	}
}
