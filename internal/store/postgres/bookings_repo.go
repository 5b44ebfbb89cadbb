package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"seatbook/internal/domain"
	"seatbook/internal/store"
)

const uniqueViolation = "23505"

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type slotTx struct {
	tx bun.Tx
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) CountSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (int, error) {
	return r.db.NewSelect().
		Model((*domain.Booking)(nil)).
		Where("weekday = ?", wd).
		Where("time_slot = ?", ts).
		Count(ctx)
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *BookingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepo) InSlotTransaction(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot, fn func(ctx context.Context, tx store.SlotTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockSlot(ctx, tx, wd, ts); err != nil {
			return err
		}
		return fn(ctx, slotTx{tx: tx})
	})
}

func slotLockKey(wd domain.Weekday, ts domain.TimeSlot) string {
	return "seatbook:slot:" + string(wd) + ":" + string(ts)
}

func lockSlot(ctx context.Context, tx bun.Tx, wd domain.Weekday, ts domain.TimeSlot) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", slotLockKey(wd, ts)).Exec(ctx)
	return err
}

func (t slotTx) ListSlot(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := t.tx.NewSelect().
		Model(&rows).
		Where("weekday = ?", wd).
		Where("time_slot = ?", ts).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t slotTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m := domain.Booking{
		ID:        b.ID,
		Name:      b.Name,
		Weekday:   b.Weekday,
		TimeSlot:  b.TimeSlot,
		CreatedAt: b.CreatedAt,
	}

	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.Booking{}, store.ErrDuplicate
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
