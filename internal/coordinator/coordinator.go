// Package coordinator keeps the client's view of the bookings consistent with
// the remote store, falling back to the local cache when the store is out of
// reach.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seatbook/internal/availability"
	"seatbook/internal/cache"
	"seatbook/internal/domain"
	"seatbook/internal/metrics"
	"seatbook/internal/remote"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrSubmitInProgress = errors.New("a booking is already being submitted")
)

// StoreError wraps a failure to reach, or be answered by, the remote store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("remote store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

type Remote interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, c domain.Candidate) (domain.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	Availability(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) (domain.Availability, error)
	Reset(ctx context.Context) error
}

// Source says where the data behind a result came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceEmpty  Source = "empty"
	SourceLocal  Source = "local"
)

type LoadResult struct {
	Bookings []domain.Booking
	Source   Source
	// Err is the remote failure that forced a fallback.
	Err error
	// Rejected lists locally held bookings the store refused while resyncing.
	Rejected []domain.Booking
}

type CreateResult struct {
	Booking domain.Booking
	// Degraded is set when the booking exists only locally.
	Degraded bool
	Cause    error
}

type AvailabilityResult struct {
	Availability domain.Availability
	Source       Source
}

type Options struct {
	// OfflineWrites keeps bookings locally when the store is unreachable
	// instead of failing the request.
	OfflineWrites bool
	Logger        *slog.Logger
	Now           func() time.Time
}

type Coordinator struct {
	engine        availability.Engine
	remote        Remote
	cache         cache.Store
	log           *slog.Logger
	now           func() time.Time
	offlineWrites bool

	mu       sync.RWMutex
	bookings []domain.Booking

	submitting sync.Mutex
}

func New(engine availability.Engine, r Remote, kv cache.Store, opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Coordinator{
		engine:        engine,
		remote:        r,
		cache:         kv,
		log:           log.With(slog.String("component", "coordinator")),
		now:           now,
		offlineWrites: opts.OfflineWrites,
	}
}

func (c *Coordinator) Engine() availability.Engine {
	return c.engine
}

// Snapshot returns a copy of the current bookings.
func (c *Coordinator) Snapshot() []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

func (c *Coordinator) Grid() domain.Grid {
	return c.engine.Grid(c.Snapshot())
}

// Load refreshes the snapshot. It never fails: when the store is unreachable
// the cached snapshot is used, or an empty one when there is none.
func (c *Coordinator) Load(ctx context.Context) LoadResult {
	rejected := c.syncPending(ctx)

	rows, err := c.remote.ListBookings(ctx)
	if err == nil {
		pending := c.pending()
		merged := make([]domain.Booking, 0, len(rows)+len(pending))
		merged = append(merged, rows...)
		merged = append(merged, pending...)
		domain.SortBookings(merged)

		c.replace(merged)
		c.persist(ctx)
		return LoadResult{Bookings: c.Snapshot(), Source: SourceRemote, Rejected: rejected}
	}

	metrics.IncStoreFallback("load")
	c.log.Warn("remote load failed; using local cache", slog.Any("err", err))

	cached, cacheErr := c.readCache(ctx)
	if cacheErr != nil {
		if !errors.Is(cacheErr, cache.ErrMiss) {
			c.log.Warn("cache read failed", slog.Any("err", cacheErr))
		}
		// Bookings that never reached the store survive a failed cache read.
		c.replace(c.pending())
		return LoadResult{Bookings: c.Snapshot(), Source: SourceEmpty, Err: err, Rejected: rejected}
	}

	domain.SortBookings(cached)
	c.replace(cached)
	return LoadResult{Bookings: c.Snapshot(), Source: SourceCache, Err: err, Rejected: rejected}
}

// Create validates locally, then submits to the store. Rule violations are
// returned as *availability.ValidationError and never reach the store.
func (c *Coordinator) Create(ctx context.Context, cand domain.Candidate) (CreateResult, error) {
	if !c.submitting.TryLock() {
		return CreateResult{}, ErrSubmitInProgress
	}
	defer c.submitting.Unlock()

	cand.Name = strings.TrimSpace(cand.Name)
	if err := c.engine.Validate(c.Snapshot(), cand); err != nil {
		return CreateResult{}, err
	}

	b, err := c.remote.CreateBooking(ctx, cand)
	if err == nil {
		c.mu.Lock()
		c.bookings = append(c.bookings, b)
		domain.SortBookings(c.bookings)
		c.mu.Unlock()
		c.persist(ctx)

		c.log.Info("booking created", slog.String("booking_id", b.ID.String()))
		return CreateResult{Booking: b}, nil
	}

	var vErr *availability.ValidationError
	if errors.As(err, &vErr) {
		return CreateResult{}, vErr
	}
	if !c.offlineWrites {
		return CreateResult{}, &StoreError{Op: "create", Err: err}
	}

	metrics.IncStoreFallback("create")
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return CreateResult{}, &StoreError{Op: "create", Err: errors.Join(err, idErr)}
	}
	local := domain.Booking{
		ID:        id,
		Name:      cand.Name,
		Weekday:   cand.Weekday,
		TimeSlot:  cand.TimeSlot,
		CreatedAt: c.now(),
		Pending:   true,
	}

	c.mu.Lock()
	c.bookings = append(c.bookings, local)
	domain.SortBookings(c.bookings)
	c.mu.Unlock()
	c.persist(ctx)

	c.log.Warn("remote create failed; booking kept locally",
		slog.Any("err", err),
		slog.String("booking_id", local.ID.String()),
	)
	return CreateResult{Booking: local, Degraded: true, Cause: err}, nil
}

// Remove deletes a booking. Bookings that never reached the store are only
// dropped locally; a failed remote delete leaves the snapshot untouched.
func (c *Coordinator) Remove(ctx context.Context, id uuid.UUID) error {
	b, ok := c.find(id)
	if !ok {
		return ErrNotFound
	}

	if b.Pending {
		c.drop(id)
		c.persist(ctx)
		return nil
	}

	if err := c.remote.DeleteBooking(ctx, id); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}

	if res := c.Load(ctx); res.Source != SourceRemote {
		c.drop(id)
		c.persist(ctx)
	}
	c.log.Info("booking removed", slog.String("booking_id", id.String()))
	return nil
}

// AvailabilityFor asks the store first and falls back to the local snapshot.
// Bookings held only locally are counted either way.
func (c *Coordinator) AvailabilityFor(ctx context.Context, wd domain.Weekday, ts domain.TimeSlot) AvailabilityResult {
	a, err := c.remote.Availability(ctx, wd, ts)
	if err == nil {
		if a.Status != domain.StatusUnavailable {
			if n := c.engine.CountBooked(c.pending(), wd, ts); n > 0 {
				a = c.engine.ClassifyCount(a.Capacity - a.Remaining + n)
			}
		}
		return AvailabilityResult{Availability: a, Source: SourceRemote}
	}

	metrics.IncStoreFallback("availability")
	c.log.Debug("remote availability failed; computing locally", slog.Any("err", err))
	return AvailabilityResult{
		Availability: c.engine.Classify(c.Snapshot(), wd, ts),
		Source:       SourceLocal,
	}
}

// Reset clears the store and then the local state. Local state is kept when
// the store cannot be cleared, so the next attempt starts from the same place.
func (c *Coordinator) Reset(ctx context.Context) error {
	if err := c.remote.Reset(ctx); err != nil {
		return &StoreError{Op: "reset", Err: err}
	}
	c.replace(nil)
	c.persist(ctx)
	c.log.Info("bookings reset")
	return nil
}

func (c *Coordinator) syncPending(ctx context.Context) []domain.Booking {
	pending := c.pending()
	if len(pending) == 0 {
		return nil
	}
	defer c.persist(ctx)

	var rejected []domain.Booking
	for _, b := range pending {
		created, err := c.remote.CreateBooking(ctx, domain.Candidate{Name: b.Name, Weekday: b.Weekday, TimeSlot: b.TimeSlot})
		if err == nil {
			c.swap(b.ID, created)
			c.log.Info("pending booking synced",
				slog.String("local_id", b.ID.String()),
				slog.String("booking_id", created.ID.String()),
			)
			continue
		}

		var vErr *availability.ValidationError
		if errors.As(err, &vErr) || remote.IsRejection(err) {
			c.log.Warn("pending booking rejected by store",
				slog.String("booking_id", b.ID.String()),
				slog.Any("err", err),
			)
			c.drop(b.ID)
			rejected = append(rejected, b)
			continue
		}

		// Unreachable, throttled or otherwise not answered on the rules; try
		// again on the next load.
		c.log.Debug("pending booking not synced", slog.String("booking_id", b.ID.String()), slog.Any("err", err))
		break
	}
	return rejected
}

func (c *Coordinator) pending() []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Booking
	for _, b := range c.bookings {
		if b.Pending {
			out = append(out, b)
		}
	}
	return out
}

func (c *Coordinator) find(id uuid.UUID) (domain.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

func (c *Coordinator) drop(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range c.bookings {
		if b.ID == id {
			c.bookings = append(c.bookings[:i:i], c.bookings[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) swap(id uuid.UUID, b domain.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.bookings {
		if c.bookings[i].ID == id {
			c.bookings[i] = b
			return
		}
	}
}

func (c *Coordinator) replace(bookings []domain.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bookings = bookings
}

func (c *Coordinator) persist(ctx context.Context) {
	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		c.log.Error("cache encode failed", slog.Any("err", err))
		return
	}
	if err := c.cache.Set(ctx, cache.KeyBookings, data); err != nil {
		c.log.Warn("cache write failed", slog.Any("err", err))
	}
}

func (c *Coordinator) readCache(ctx context.Context) ([]domain.Booking, error) {
	data, err := c.cache.Get(ctx, cache.KeyBookings)
	if err != nil {
		return nil, err
	}
	var out []domain.Booking
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode cached bookings: %w", err)
	}
	if out == nil {
		out = []domain.Booking{}
	}
	return out, nil
}
