// Package memory is a process-local BookingRepository. A single mutex is the
// serialization point for every slot.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seatbook/internal/domain"
	"seatbook/internal/store"
)

type BookingRepo struct {
	mu       sync.Mutex
	bookings []domain.Booking
	now      func() time.Time
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{now: func() time.Time { return time.Now().UTC() }}
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

func (r *BookingRepo) CountSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slot(wd, ts)), nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookings {
		if b.ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *BookingRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.bookings))
	r.bookings = nil
	return n, nil
}

func (r *BookingRepo) InSlotTransaction(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot, fn func(ctx context.Context, tx store.SlotTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &slotTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.bookings = append(r.bookings, tx.pending...)
	return nil
}

func (r *BookingRepo) slot(wd domain.Weekday, ts domain.TimeSlot) []domain.Booking {
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.Weekday == wd && b.TimeSlot == ts {
			out = append(out, b)
		}
	}
	return out
}

// slotTx buffers inserts until fn returns without error. It runs with the
// repo mutex held, so it must not call back into BookingRepo's public methods.
type slotTx struct {
	repo    *BookingRepo
	pending []domain.Booking
}

func (t *slotTx) ListSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) ([]domain.Booking, error) {
	out := t.repo.slot(wd, ts)
	for _, b := range t.pending {
		if b.Weekday == wd && b.TimeSlot == ts {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *slotTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	existing, _ := t.ListSlot(ctx, b.Weekday, b.TimeSlot)
	name := strings.TrimSpace(b.Name)
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e.Name), name) {
			return domain.Booking{}, store.ErrDuplicate
		}
	}

	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Booking{}, err
		}
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = t.repo.now()
	}
	b.Pending = false
	t.pending = append(t.pending, b)
	return b, nil
}
