package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"seatbook/internal/availability"
	"seatbook/internal/domain"
	"seatbook/internal/store"
)

type Service struct {
	repo   store.BookingRepository
	engine availability.Engine
}

func NewService(repo store.BookingRepository, engine availability.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

type CreateInput struct {
	Name     string
	Weekday  string
	TimeSlot string
}

// Candidate turns raw identifiers into a candidate. Unknown non-empty values are
// kept verbatim so validation reports them as not offered rather than missing.
func (in CreateInput) Candidate() domain.Candidate {
	c := domain.Candidate{Name: strings.TrimSpace(in.Name)}
	if raw := strings.TrimSpace(in.Weekday); raw != "" {
		wd, ok := domain.ParseWeekday(raw)
		if !ok {
			wd = domain.Weekday(raw)
		}
		c.Weekday = wd
	}
	if raw := strings.TrimSpace(in.TimeSlot); raw != "" {
		ts, ok := domain.ParseTimeSlot(raw)
		if !ok {
			ts = domain.TimeSlot(raw)
		}
		c.TimeSlot = ts
	}
	return c
}

func (s *Service) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortBookings(rows)
	return rows, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	c := in.Candidate()

	// Shape checks need no data; fail before taking the slot lock.
	if err := s.engine.Validate(nil, c); err != nil {
		return domain.Booking{}, err
	}

	var out domain.Booking
	err := s.repo.InSlotTransaction(ctx, c.Weekday, c.TimeSlot, func(ctx context.Context, tx store.SlotTx) error {
		existing, err := tx.ListSlot(ctx, c.Weekday, c.TimeSlot)
		if err != nil {
			return err
		}
		if err := s.engine.Validate(existing, c); err != nil {
			return err
		}
		b, err := tx.CreateBooking(ctx, domain.Booking{
			Name:     c.Name,
			Weekday:  c.Weekday,
			TimeSlot: c.TimeSlot,
		})
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Booking{}, availability.NewValidationError(availability.KindDuplicateBooking)
	}
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return store.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Availability(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (domain.Availability, error) {
	if !s.engine.Offered(wd, ts) {
		return s.engine.Classify(nil, wd, ts), nil
	}
	n, err := s.repo.CountSlot(ctx, wd, ts)
	if err != nil {
		return domain.Availability{}, err
	}
	return s.engine.ClassifyCount(n), nil
}

// Reset removes every booking. It is safe to call on an empty store.
func (s *Service) Reset(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
