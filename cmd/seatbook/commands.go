package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"seatbook/internal/availability"
	"seatbook/internal/cache"
	"seatbook/internal/coordinator"
	"seatbook/internal/domain"
	"seatbook/internal/export"
)

type usageError string

func (e usageError) Error() string { return string(e) }

type app struct {
	coord *coordinator.Coordinator
	cache cache.Store
	out   io.Writer
	log   *slog.Logger
	now   func() time.Time
	sweep coordinator.SweeperOptions
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return a.list(ctx, rest)
	case "book":
		return a.book(ctx, rest)
	case "cancel":
		return a.cancel(ctx, rest)
	case "availability":
		return a.availability(ctx, rest)
	case "grid":
		return a.grid(ctx, rest)
	case "export":
		return a.export(ctx, rest)
	case "reset":
		return a.reset(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError(fs.Name() + ": " + err.Error())
	}
	return nil
}

func (a *app) load(ctx context.Context) coordinator.LoadResult {
	res := a.coord.Load(ctx)
	switch res.Source {
	case coordinator.SourceCache:
		fmt.Fprintln(a.out, "Note: the booking store is unreachable; showing the last saved copy.")
	case coordinator.SourceEmpty:
		fmt.Fprintln(a.out, "Note: the booking store is unreachable and nothing is saved locally.")
	}
	for _, b := range res.Rejected {
		fmt.Fprintf(a.out, "Note: %s's booking for %s, %s was refused by the store and removed.\n",
			b.Name, b.Weekday.Label(), b.TimeSlot.Label())
	}
	return res
}

func (a *app) list(ctx context.Context, args []string) error {
	if err := parseFlags(newFlagSet("list"), args); err != nil {
		return err
	}
	res := a.load(ctx)
	return renderBookings(a.out, res.Bookings)
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := newFlagSet("book")
	name := fs.StringP("name", "n", "", "your name")
	day := fs.StringP("day", "d", "", "weekday, e.g. monday")
	slot := fs.StringP("slot", "s", "", "morning or afternoon")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.load(ctx)

	res, err := a.coord.Create(ctx, domain.Candidate{
		Name:     *name,
		Weekday:  weekdayArg(*day),
		TimeSlot: timeSlotArg(*slot),
	})
	if err != nil {
		return err
	}

	b := res.Booking
	if res.Degraded {
		fmt.Fprintf(a.out, "Saved %s for %s, %s locally. The booking store is unreachable; it will be sent on the next refresh.\n",
			b.Name, b.Weekday.Label(), b.TimeSlot.Label())
		return nil
	}
	fmt.Fprintf(a.out, "Booked %s for %s, %s (id %s).\n", b.Name, b.Weekday.Label(), b.TimeSlot.Label(), b.ID)
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	fs := newFlagSet("cancel")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageError("cancel: expected one booking id")
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return usageError("cancel: invalid booking id")
	}

	a.load(ctx)
	if err := a.coord.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cancelled booking %s.\n", id)
	return nil
}

func (a *app) availability(ctx context.Context, args []string) error {
	fs := newFlagSet("availability")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError("availability: expected <day> <slot>")
	}
	wd, ok := domain.ParseWeekday(fs.Arg(0))
	if !ok {
		return usageError(fmt.Sprintf("availability: unknown day %q", fs.Arg(0)))
	}
	ts, ok := domain.ParseTimeSlot(fs.Arg(1))
	if !ok {
		return usageError(fmt.Sprintf("availability: unknown slot %q", fs.Arg(1)))
	}

	a.load(ctx)
	res := a.coord.AvailabilityFor(ctx, wd, ts)
	fmt.Fprintf(a.out, "%s, %s: %s\n", wd.Label(), ts.Label(), res.Availability.Message())
	return nil
}

func (a *app) grid(ctx context.Context, args []string) error {
	if err := parseFlags(newFlagSet("grid"), args); err != nil {
		return err
	}
	a.load(ctx)
	return renderGrid(a.out, a.coord.Grid())
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	format := fs.StringP("format", "f", export.FormatJSON, "json or xlsx")
	out := fs.StringP("out", "o", "", "output file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *format != export.FormatJSON && *format != export.FormatXLSX {
		return usageError(fmt.Sprintf("export: unsupported format %q", *format))
	}
	path := *out
	if path == "" {
		path = export.FileName(a.now(), *format)
	}

	res := a.load(ctx)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if *format == export.FormatXLSX {
		err = export.WriteXLSX(f, res.Bookings, a.coord.Grid())
	} else {
		err = export.WriteJSON(f, res.Bookings)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "Wrote %d bookings to %s.\n", len(res.Bookings), path)
	return nil
}

func (a *app) reset(ctx context.Context, args []string) error {
	fs := newFlagSet("reset")
	yes := fs.Bool("yes", false, "confirm clearing every booking")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if !*yes {
		return usageError("reset: this clears every booking; pass --yes to confirm")
	}
	if err := a.coord.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All bookings cleared.")
	return nil
}

func (a *app) watch(ctx context.Context, args []string) error {
	fs := newFlagSet("watch")
	interval := fs.Duration("interval", time.Minute, "refresh interval")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *interval <= 0 {
		return usageError("watch: interval must be positive")
	}

	sweeper := coordinator.NewSweeper(a.coord, a.cache, a.sweep)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		res := a.coord.Load(ctx)
		a.log.Info("bookings refreshed",
			slog.String("source", string(res.Source)),
			slog.Int("count", len(res.Bookings)),
			slog.Int("rejected", len(res.Rejected)),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func weekdayArg(raw string) domain.Weekday {
	if wd, ok := domain.ParseWeekday(raw); ok {
		return wd
	}
	return domain.Weekday(strings.TrimSpace(raw))
}

func timeSlotArg(raw string) domain.TimeSlot {
	if ts, ok := domain.ParseTimeSlot(raw); ok {
		return ts
	}
	return domain.TimeSlot(strings.TrimSpace(raw))
}

// describe turns coordinator errors into a line for the terminal.
func describe(err error) string {
	var vErr *availability.ValidationError
	var sErr *coordinator.StoreError
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.As(err, &sErr):
		return "the booking store could not complete the request (" + sErr.Err.Error() + ")"
	case errors.Is(err, coordinator.ErrNotFound):
		return "no booking with that id"
	default:
		return err.Error()
	}
}
