package store

import (
	"context"

	"github.com/google/uuid"

	"seatbook/internal/domain"
)

type BookingRepository interface {
	List(ctx context.Context) ([]domain.Booking, error)
	CountSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)

	// InSlotTransaction runs fn while holding the write lock for one
	// (weekday, time slot) pair, so check-then-insert sequences for the same
	// slot never interleave.
	InSlotTransaction(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot, fn func(ctx context.Context, tx SlotTx) error) error
}

type SlotTx interface {
	ListSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error)
}
