package domain

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "monday is its own start",
			in:   time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
			want: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the previous week",
			in:   time.Date(2026, 1, 4, 23, 59, 0, 0, time.UTC),
			want: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "friday",
			in:   time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Fatalf("WeekStart(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStart_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	// 23:30 UTC on Sunday is already Monday in CET.
	in := time.Date(2026, 1, 4, 23, 30, 0, 0, time.UTC).In(loc)
	got := WeekStart(in)
	want := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("WeekStart = %s, want %s", got, want)
	}
}

func TestWeekKey(t *testing.T) {
	if got := WeekKey(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); got != "2026-W01" {
		t.Fatalf("WeekKey = %q, want %q", got, "2026-W01")
	}
	if got := WeekKey(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)); got != "2026-W02" {
		t.Fatalf("WeekKey = %q, want %q", got, "2026-W02")
	}
	if got := WeekKey(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)); got != "2026-W01" {
		t.Fatalf("WeekKey = %q, want %q", got, "2026-W01")
	}
}

func TestWeekdayDate(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := Friday.Date(monday); !got.Equal(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Friday.Date = %s", got)
	}
	if got := Weekday("sunday").Date(monday); !got.IsZero() {
		t.Fatalf("unknown weekday date = %s, want zero", got)
	}
}
