package domain

import (
	"fmt"
	"time"
)

// WeekStart returns midnight of the Monday that opens t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	wd := t.Weekday()
	offset := 0
	if wd == time.Sunday {
		offset = 6
	} else {
		offset = int(wd) - 1
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -offset)
}

// WeekKey identifies the ISO week containing t, e.g. "2026-W42".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// Date returns the calendar date of w in the week starting at monday.
func (w Weekday) Date(monday time.Time) time.Time {
	i := w.Index()
	if i >= len(Weekdays) {
		return time.Time{}
	}
	return monday.AddDate(0, 0, i)
}
