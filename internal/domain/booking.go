package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Booking is one person's reservation of a seat in a (weekday, time slot) pair.
type Booking struct {
	bun.BaseModel `bun:"table:bookings" json:"-"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Weekday   Weekday   `bun:"weekday,notnull" json:"weekday"`
	TimeSlot  TimeSlot  `bun:"time_slot,notnull" json:"timeSlot"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`

	// Pending marks a booking that was accepted locally but never reached the
	// remote store. The server never sets it.
	Pending bool `bun:"-" json:"pending,omitempty"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Candidate is a proposed booking that has not been validated yet.
type Candidate struct {
	Name     string
	Weekday  Weekday
	TimeSlot TimeSlot
}

// SortBookings orders bookings by weekday, then time slot, then creation time.
func SortBookings(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Weekday != b.Weekday {
			return a.Weekday.Index() < b.Weekday.Index()
		}
		if a.TimeSlot != b.TimeSlot {
			return a.TimeSlot.Index() < b.TimeSlot.Index()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
