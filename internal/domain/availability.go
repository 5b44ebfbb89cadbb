package domain

import (
	"fmt"
)

type Status string

const (
	StatusUnavailable Status = "unavailable"
	StatusFull        Status = "full"
	StatusLimited     Status = "limited"
	StatusAvailable   Status = "available"
)

// Availability is the classification of one (weekday, time slot) pair.
func (s Status) Valid() bool {
	switch s {
	case StatusUnavailable, StatusFull, StatusLimited, StatusAvailable:
		return true
	}
	return false
}

type Availability struct {
	Status    Status
	Remaining int
	Capacity  int
}

// Bookable reports whether a new booking could still fit.
func (a Availability) Bookable() bool {
	return a.Status == StatusAvailable || a.Status == StatusLimited
}

func (a Availability) Message() string {
	switch a.Status {
	case StatusUnavailable:
		return "Not offered on this day"
	case StatusFull:
		return "Fully booked"
	case StatusLimited:
		if a.Remaining == 1 {
			return "Only 1 seat left"
		}
		return fmt.Sprintf("Only %d seats left", a.Remaining)
	default:
		return fmt.Sprintf("%d seats available", a.Remaining)
	}
}

// Matrix records which time slots are offered on which weekdays.
type Matrix map[TimeSlot]map[Weekday]bool

// DefaultMatrix offers mornings every weekday and afternoons Monday to Wednesday.
func DefaultMatrix() Matrix {
	return Matrix{
		Morning:   {Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true},
		Afternoon: {Monday: true, Tuesday: true, Wednesday: true},
	}
}

func (m Matrix) Offers(wd Weekday, ts TimeSlot) bool {
	return m[ts][wd]
}

// GridCell is one weekday column of a time slot row in the weekly view.
type GridCell struct {
	Weekday  Weekday
	Offered  bool
	Booked   int
	Capacity int
	Status   Status
	Names    []string
}

type GridRow struct {
	TimeSlot TimeSlot
	Cells    []GridCell
}

// Grid is the weekly calendar projection of a booking snapshot.
type Grid struct {
	Rows []GridRow
}
