package domain

import (
	"strings"
)

// Weekday is one of the five bookable days. The zero value means "not chosen".
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Weekdays lists the bookable days in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayAliases = map[string]Weekday{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"mon":       Monday,
	"tue":       Tuesday,
	"wed":       Wednesday,
	"thu":       Thursday,
	"fri":       Friday,
	// identifiers written by the first release of the booking page
	"lunedi":    Monday,
	"martedi":   Tuesday,
	"mercoledi": Wednesday,
	"giovedi":   Thursday,
	"venerdi":   Friday,
}

var weekdayLabels = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

// ParseWeekday accepts canonical and legacy identifiers, case-insensitively.
func ParseWeekday(s string) (Weekday, bool) {
	wd, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

func (w Weekday) Valid() bool {
	_, ok := weekdayLabels[w]
	return ok
}

func (w Weekday) Label() string {
	if l, ok := weekdayLabels[w]; ok {
		return l
	}
	return string(w)
}

// UnmarshalText normalizes legacy identifiers found in old caches and rows.
// Unknown values are kept verbatim and fail Valid.
func (w *Weekday) UnmarshalText(b []byte) error {
	if wd, ok := ParseWeekday(string(b)); ok {
		*w = wd
		return nil
	}
	*w = Weekday(b)
	return nil
}

// Index is the position in Weekdays, or len(Weekdays) for unknown values.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return len(Weekdays)
}

// TimeSlot is one of the daily booking windows. The zero value means "not chosen".
type TimeSlot string

const (
	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
)

var TimeSlots = []TimeSlot{Morning, Afternoon}

var timeSlotAliases = map[string]TimeSlot{
	"morning":    Morning,
	"afternoon":  Afternoon,
	"am":         Morning,
	"pm":         Afternoon,
	"mattina":    Morning,
	"pomeriggio": Afternoon,
}

var timeSlotLabels = map[TimeSlot]string{
	Morning:   "Morning (8:30–13:30)",
	Afternoon: "Afternoon (14:00–17:00)",
}

func ParseTimeSlot(s string) (TimeSlot, bool) {
	ts, ok := timeSlotAliases[strings.ToLower(strings.TrimSpace(s))]
	return ts, ok
}

func (t TimeSlot) Valid() bool {
	_, ok := timeSlotLabels[t]
	return ok
}

func (t TimeSlot) Label() string {
	if l, ok := timeSlotLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t *TimeSlot) UnmarshalText(b []byte) error {
	if ts, ok := ParseTimeSlot(string(b)); ok {
		*t = ts
		return nil
	}
	*t = TimeSlot(b)
	return nil
}

func (t TimeSlot) Index() int {
	for i, s := range TimeSlots {
		if s == t {
			return i
		}
	}
	return len(TimeSlots)
}
