package availability

import (
	"errors"
	"strings"
	"testing"

	"seatbook/internal/domain"
)

func seed(wd domain.Weekday, ts domain.TimeSlot, names ...string) []domain.Booking {
	out := make([]domain.Booking, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Booking{Name: n, Weekday: wd, TimeSlot: ts})
	}
	return out
}

func TestClassify(t *testing.T) {
	e := NewEngine(nil, 4)

	tests := []struct {
		name          string
		bookings      []domain.Booking
		wd            domain.Weekday
		ts            domain.TimeSlot
		wantStatus    domain.Status
		wantRemaining int
	}{
		{name: "not offered", wd: domain.Thursday, ts: domain.Afternoon, wantStatus: domain.StatusUnavailable},
		{name: "empty", wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusAvailable, wantRemaining: 4},
		{name: "one booked", bookings: seed(domain.Monday, domain.Morning, "a"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusAvailable, wantRemaining: 3},
		{name: "two left", bookings: seed(domain.Monday, domain.Morning, "a", "b"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusLimited, wantRemaining: 2},
		{name: "one left", bookings: seed(domain.Monday, domain.Morning, "a", "b", "c"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusLimited, wantRemaining: 1},
		{name: "full", bookings: seed(domain.Monday, domain.Morning, "a", "b", "c", "d"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusFull},
		{name: "overbooked clamps at zero", bookings: seed(domain.Monday, domain.Morning, "a", "b", "c", "d", "e"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusFull},
		{name: "other slots ignored", bookings: seed(domain.Monday, domain.Afternoon, "a", "b", "c", "d"), wd: domain.Monday, ts: domain.Morning, wantStatus: domain.StatusAvailable, wantRemaining: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Classify(tt.bookings, tt.wd, tt.ts)
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Remaining != tt.wantRemaining {
				t.Fatalf("remaining = %d, want %d", got.Remaining, tt.wantRemaining)
			}
			if got.Capacity != 4 {
				t.Fatalf("capacity = %d, want 4", got.Capacity)
			}
		})
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(nil, 0)
	if e.Capacity != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", e.Capacity, DefaultCapacity)
	}
	if !e.Offered(domain.Friday, domain.Morning) || e.Offered(domain.Friday, domain.Afternoon) {
		t.Fatalf("default matrix not applied")
	}
}

func TestCountBooked(t *testing.T) {
	e := NewEngine(nil, 4)
	bookings := append(seed(domain.Tuesday, domain.Morning, "a", "b"), seed(domain.Tuesday, domain.Afternoon, "c")...)
	if got := e.CountBooked(bookings, domain.Tuesday, domain.Morning); got != 2 {
		t.Fatalf("CountBooked = %d, want 2", got)
	}
	if got := e.CountBooked(bookings, domain.Wednesday, domain.Morning); got != 0 {
		t.Fatalf("CountBooked = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	e := NewEngine(nil, 4)
	full := seed(domain.Monday, domain.Morning, "a1", "a2", "a3", "a4")

	tests := []struct {
		name     string
		bookings []domain.Booking
		c        domain.Candidate
		want     error
	}{
		{name: "ok", c: domain.Candidate{Name: "Anna", Weekday: domain.Monday, TimeSlot: domain.Morning}},
		{name: "name too short after trim", c: domain.Candidate{Name: "  A  ", Weekday: domain.Monday, TimeSlot: domain.Morning}, want: ErrNameTooShort},
		{name: "name too long", c: domain.Candidate{Name: strings.Repeat("x", 101), Weekday: domain.Monday, TimeSlot: domain.Morning}, want: ErrNameTooLong},
		{name: "name of exactly 100", c: domain.Candidate{Name: strings.Repeat("x", 100), Weekday: domain.Monday, TimeSlot: domain.Morning}},
		{name: "multibyte name counts runes", c: domain.Candidate{Name: "Zoë", Weekday: domain.Monday, TimeSlot: domain.Morning}},
		{name: "weekday required", c: domain.Candidate{Name: "Anna", TimeSlot: domain.Morning}, want: ErrWeekdayRequired},
		{name: "slot required", c: domain.Candidate{Name: "Anna", Weekday: domain.Monday}, want: ErrSlotRequired},
		{name: "slot not offered", c: domain.Candidate{Name: "Anna", Weekday: domain.Friday, TimeSlot: domain.Afternoon}, want: ErrSlotNotOffered},
		{name: "unknown weekday", c: domain.Candidate{Name: "Anna", Weekday: "saturday", TimeSlot: domain.Morning}, want: ErrSlotNotOffered},
		{name: "duplicate is case-insensitive", bookings: seed(domain.Monday, domain.Morning, "anna"), c: domain.Candidate{Name: "ANNA ", Weekday: domain.Monday, TimeSlot: domain.Morning}, want: ErrDuplicateBooking},
		{name: "same name other slot", bookings: seed(domain.Monday, domain.Afternoon, "anna"), c: domain.Candidate{Name: "Anna", Weekday: domain.Monday, TimeSlot: domain.Morning}},
		{name: "slot full", bookings: full, c: domain.Candidate{Name: "Anna", Weekday: domain.Monday, TimeSlot: domain.Morning}, want: ErrSlotFull},
		{name: "duplicate wins over full", bookings: full, c: domain.Candidate{Name: "A1", Weekday: domain.Monday, TimeSlot: domain.Morning}, want: ErrDuplicateBooking},
		{name: "name checked before weekday", c: domain.Candidate{Name: "A"}, want: ErrNameTooShort},
		{name: "offer checked before capacity", bookings: full, c: domain.Candidate{Name: "Anna", Weekday: domain.Thursday, TimeSlot: domain.Afternoon}, want: ErrSlotNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Validate(tt.bookings, tt.c)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate error = %v, want %v", err, tt.want)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestValidate_FifthBookingRejected(t *testing.T) {
	e := NewEngine(nil, 4)
	var bookings []domain.Booking
	for _, name := range []string{"Anna", "Bruno", "Carla", "Dario"} {
		c := domain.Candidate{Name: name, Weekday: domain.Wednesday, TimeSlot: domain.Afternoon}
		if err := e.Validate(bookings, c); err != nil {
			t.Fatalf("Validate(%s) error = %v", name, err)
		}
		bookings = append(bookings, domain.Booking{Name: c.Name, Weekday: c.Weekday, TimeSlot: c.TimeSlot})
	}

	err := e.Validate(bookings, domain.Candidate{Name: "Elena", Weekday: domain.Wednesday, TimeSlot: domain.Afternoon})
	if !errors.Is(err, ErrSlotFull) {
		t.Fatalf("Validate error = %v, want %v", err, ErrSlotFull)
	}
	if got := e.Classify(bookings, domain.Wednesday, domain.Afternoon); got.Status != domain.StatusFull || got.Remaining != 0 {
		t.Fatalf("Classify = %+v, want full with 0 remaining", got)
	}
}

func TestValidationError_DistinctMessages(t *testing.T) {
	seen := map[string]Kind{}
	for kind := range kindMessages {
		msg := NewValidationError(kind).Error()
		if other, ok := seen[msg]; ok {
			t.Fatalf("kinds %q and %q share message %q", kind, other, msg)
		}
		seen[msg] = kind
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("slot-full"); !ok || k != KindSlotFull {
		t.Fatalf("ParseKind = (%q, %v)", k, ok)
	}
	if _, ok := ParseKind("nope"); ok {
		t.Fatalf("ParseKind accepted unknown code")
	}
}

func TestGrid(t *testing.T) {
	e := NewEngine(nil, 4)
	bookings := append(seed(domain.Monday, domain.Morning, "Anna", "Bruno", "Carla"), seed(domain.Thursday, domain.Afternoon, "Legacy")...)

	grid := e.Grid(bookings)
	if len(grid.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(grid.Rows))
	}
	morning := grid.Rows[0]
	if morning.TimeSlot != domain.Morning || len(morning.Cells) != 5 {
		t.Fatalf("morning row = %+v", morning)
	}
	mon := morning.Cells[0]
	if mon.Booked != 3 || mon.Status != domain.StatusLimited || len(mon.Names) != 3 {
		t.Fatalf("monday morning = %+v", mon)
	}

	thu := grid.Rows[1].Cells[3]
	if thu.Offered {
		t.Fatalf("thursday afternoon offered")
	}
	// Data in non-offered slots is still shown.
	if thu.Booked != 1 || thu.Names[0] != "Legacy" {
		t.Fatalf("thursday afternoon = %+v", thu)
	}
}
