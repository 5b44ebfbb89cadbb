package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"seatbook/internal/availability"
	"seatbook/internal/cache/sqlitecache"
	"seatbook/internal/coordinator"
	"seatbook/internal/remote"
	"seatbook/internal/service/bookings"
	"seatbook/internal/store/memory"
	"seatbook/internal/transport/rest"
)

type harness struct {
	app *app
	out *bytes.Buffer
	srv *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := availability.NewEngine(nil, 4)
	srv := httptest.NewServer(rest.NewRouter(bookings.NewService(memory.NewBookingRepo(), engine), log, rest.Options{}))
	t.Cleanup(srv.Close)

	kv, err := sqlitecache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	out := &bytes.Buffer{}
	return &harness{
		app: &app{
			coord: coordinator.New(engine, remote.NewClient(srv.URL+"/api", time.Second), kv, coordinator.Options{OfflineWrites: true, Logger: log}),
			cache: kv,
			out:   out,
			log:   log,
			now:   func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) },
		},
		out: out,
		srv: srv,
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h.out.Reset()
	err := h.app.run(context.Background(), args)
	return h.out.String(), err
}

func TestRun_BookListCancel(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "book", "--name", "Anna", "--day", "Mon", "--slot", "morning")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if !strings.Contains(out, "Booked Anna for Monday, Morning") {
		t.Fatalf("book output = %q", out)
	}

	out, err = h.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Anna") || !strings.Contains(out, "confirmed") {
		t.Fatalf("list output = %q", out)
	}

	id := h.app.coord.Snapshot()[0].ID.String()
	if _, err := h.run(t, "cancel", id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	out, _ = h.run(t, "list")
	if !strings.Contains(out, "No bookings this week.") {
		t.Fatalf("list after cancel = %q", out)
	}
}

func TestRun_BookValidationError(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "book", "--name", "Anna", "--day", "thursday", "--slot", "afternoon")
	if !errors.Is(err, availability.ErrSlotNotOffered) {
		t.Fatalf("err = %v, want slot not offered", err)
	}
	if got := describe(err); got != err.Error() {
		t.Fatalf("describe = %q", got)
	}

	_, err = h.run(t, "book", "--day", "monday", "--slot", "morning")
	if !errors.Is(err, availability.ErrNameTooShort) {
		t.Fatalf("err = %v, want name too short", err)
	}
}

func TestRun_Availability(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"Anna", "Bruno", "Carla"} {
		if _, err := h.run(t, "book", "-n", name, "-d", "tuesday", "-s", "pm"); err != nil {
			t.Fatalf("book %s: %v", name, err)
		}
	}

	out, err := h.run(t, "availability", "tuesday", "afternoon")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !strings.Contains(out, "Only 1 seat left") {
		t.Fatalf("availability output = %q", out)
	}

	out, _ = h.run(t, "availability", "friday", "afternoon")
	if !strings.Contains(out, "Not offered on this day") {
		t.Fatalf("availability output = %q", out)
	}

	var uErr usageError
	if _, err := h.run(t, "availability", "saturday", "morning"); !errors.As(err, &uErr) {
		t.Fatalf("err = %v, want usage error", err)
	}
}

func TestRun_Grid(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "book", "-n", "Anna", "-d", "wednesday", "-s", "morning"); err != nil {
		t.Fatalf("book: %v", err)
	}

	out, err := h.run(t, "grid")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for _, want := range []string{"WEDNESDAY", "1/4 available", "Wednesday, Morning (8:30–13:30): Anna"} {
		if !strings.Contains(out, want) {
			t.Fatalf("grid output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ExportJSON(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "book", "-n", "Anna", "-d", "monday", "-s", "morning"); err != nil {
		t.Fatalf("book: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if _, err := h.run(t, "export", "--out", path); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Anna" {
		t.Fatalf("rows = %v", rows)
	}

	var uErr usageError
	if _, err := h.run(t, "export", "--format", "csv"); !errors.As(err, &uErr) {
		t.Fatalf("err = %v, want usage error", err)
	}
}

func TestRun_ResetNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "book", "-n", "Anna", "-d", "monday", "-s", "morning"); err != nil {
		t.Fatalf("book: %v", err)
	}

	var uErr usageError
	if _, err := h.run(t, "reset"); !errors.As(err, &uErr) {
		t.Fatalf("err = %v, want usage error", err)
	}
	if n := len(h.app.coord.Snapshot()); n != 1 {
		t.Fatalf("snapshot len = %d, want 1", n)
	}

	if _, err := h.run(t, "reset", "--yes"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := len(h.app.coord.Snapshot()); n != 0 {
		t.Fatalf("snapshot len = %d, want 0", n)
	}
}

func TestRun_StoreDown(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "book", "-n", "Anna", "-d", "monday", "-s", "morning"); err != nil {
		t.Fatalf("book: %v", err)
	}
	h.srv.Close()

	out, err := h.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "last saved copy") || !strings.Contains(out, "Anna") {
		t.Fatalf("list output = %q", out)
	}

	out, err = h.run(t, "book", "-n", "Bruno", "-d", "monday", "-s", "morning")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if !strings.Contains(out, "locally") {
		t.Fatalf("book output = %q", out)
	}

	_, err = h.run(t, "reset", "--yes")
	var sErr *coordinator.StoreError
	if !errors.As(err, &sErr) {
		t.Fatalf("err = %v, want store error", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	var uErr usageError
	if _, err := h.run(t, "frobnicate"); !errors.As(err, &uErr) {
		t.Fatalf("err = %v, want usage error", err)
	}
}
