package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"seatbook/internal/cache"
	"seatbook/internal/domain"
	"seatbook/internal/metrics"
)

type resetter interface {
	Reset(ctx context.Context) error
}

type SweeperOptions struct {
	Interval time.Duration
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Sweeper clears all bookings once per calendar week. The week last swept is
// kept in the cache, so restarts within a week do not clear again.
type Sweeper struct {
	target   resetter
	cache    cache.Store
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger

	// mu serializes RunOnce; runMu guards the loop channels.
	mu     sync.Mutex
	runMu  sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewSweeper(target resetter, kv cache.Store, opts SweeperOptions) *Sweeper {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Sweeper{
		target:   target,
		cache:    kv,
		interval: opts.Interval,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger.With(slog.String("component", "sweeper")),
	}
}

// RunOnce resets when the current week differs from the last recorded one and
// reports whether it did. The first observation only records the week.
func (s *Sweeper) RunOnce(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := domain.WeekKey(s.now().In(s.loc))

	last, err := s.cache.Get(ctx, cache.KeyLastResetWeek)
	if errors.Is(err, cache.ErrMiss) {
		return false, s.cache.Set(ctx, cache.KeyLastResetWeek, []byte(week))
	}
	if err != nil {
		return false, err
	}
	if string(last) == week {
		return false, nil
	}

	if err := s.target.Reset(ctx); err != nil {
		return false, err
	}
	if err := s.cache.Set(ctx, cache.KeyLastResetWeek, []byte(week)); err != nil {
		return true, err
	}

	metrics.IncWeeklyReset("sweep")
	s.log.Info("weekly reset done", slog.String("previous_week", string(last)), slog.String("week", week))
	return true, nil
}

// Start runs the sweep immediately and then on every tick until Stop or ctx
// cancellation. Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running() {
		return
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	s.stopCh, s.doneCh = stopCh, doneCh

	go func() {
		defer close(doneCh)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop ends the loop started by Start and waits for it to exit.
func (s *Sweeper) Stop() {
	s.runMu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.runMu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

// running must be called with runMu held.
func (s *Sweeper) running() bool {
	if s.doneCh == nil {
		return false
	}
	select {
	case <-s.doneCh:
		return false
	default:
		return true
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Warn("weekly reset failed; will retry", slog.Any("err", err))
	}
}
