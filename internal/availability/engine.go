// Package availability holds the booking rules shared by the server and the
// client. Everything here is pure: no I/O, no clocks, no shared state.
package availability

import (
	"strings"
	"unicode/utf8"

	"seatbook/internal/domain"
)

const (
	DefaultCapacity  = 4
	LimitedThreshold = 2

	MinNameLength = 2
	MaxNameLength = 100
)

type Engine struct {
	Matrix   domain.Matrix
	Capacity int
}

func NewEngine(matrix domain.Matrix, capacity int) Engine {
	if matrix == nil {
		matrix = domain.DefaultMatrix()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Engine{Matrix: matrix, Capacity: capacity}
}

func (e Engine) Offered(wd domain.Weekday, ts domain.TimeSlot) bool {
	return e.Matrix.Offers(wd, ts)
}

func (e Engine) CountBooked(bookings []domain.Booking, wd domain.Weekday, ts domain.TimeSlot) int {
	n := 0
	for _, b := range bookings {
		if b.Weekday == wd && b.TimeSlot == ts {
			n++
		}
	}
	return n
}

func (e Engine) Classify(bookings []domain.Booking, wd domain.Weekday, ts domain.TimeSlot) domain.Availability {
	if !e.Offered(wd, ts) {
		return domain.Availability{Status: domain.StatusUnavailable, Capacity: e.Capacity}
	}
	return e.ClassifyCount(e.CountBooked(bookings, wd, ts))
}

// ClassifyCount classifies an offered slot that already holds count bookings.
func (e Engine) ClassifyCount(count int) domain.Availability {
	remaining := e.Capacity - count
	if remaining <= 0 {
		return domain.Availability{Status: domain.StatusFull, Capacity: e.Capacity}
	}
	status := domain.StatusAvailable
	if remaining <= LimitedThreshold {
		status = domain.StatusLimited
	}
	return domain.Availability{Status: status, Remaining: remaining, Capacity: e.Capacity}
}

// Validate runs the booking rules in order and returns the first violation as
// a *ValidationError, or nil when c may be booked on top of bookings.
func (e Engine) Validate(bookings []domain.Booking, c domain.Candidate) error {
	name := strings.TrimSpace(c.Name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return NewValidationError(KindNameTooShort)
	}
	if n > MaxNameLength {
		return NewValidationError(KindNameTooLong)
	}
	if c.Weekday == "" {
		return NewValidationError(KindWeekdayRequired)
	}
	if c.TimeSlot == "" {
		return NewValidationError(KindSlotRequired)
	}
	if !e.Offered(c.Weekday, c.TimeSlot) {
		return NewValidationError(KindSlotNotOffered)
	}

	count := 0
	for _, b := range bookings {
		if b.Weekday != c.Weekday || b.TimeSlot != c.TimeSlot {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(b.Name), name) {
			return NewValidationError(KindDuplicateBooking)
		}
		count++
	}
	if count >= e.Capacity {
		return NewValidationError(KindSlotFull)
	}
	return nil
}

// Grid projects bookings onto the weekly calendar.
func (e Engine) Grid(bookings []domain.Booking) domain.Grid {
	grid := domain.Grid{Rows: make([]domain.GridRow, 0, len(domain.TimeSlots))}
	for _, ts := range domain.TimeSlots {
		row := domain.GridRow{TimeSlot: ts, Cells: make([]domain.GridCell, 0, len(domain.Weekdays))}
		for _, wd := range domain.Weekdays {
			cell := domain.GridCell{
				Weekday:  wd,
				Offered:  e.Offered(wd, ts),
				Capacity: e.Capacity,
			}
			for _, b := range bookings {
				if b.Weekday == wd && b.TimeSlot == ts {
					cell.Booked++
					cell.Names = append(cell.Names, b.Name)
				}
			}
			cell.Status = e.Classify(bookings, wd, ts).Status
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
