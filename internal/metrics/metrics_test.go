package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingRejected.WithLabelValues("slot-full"))
	IncBookingRejected("slot-full")
	if got := testutil.ToFloat64(bookingRejected.WithLabelValues("slot-full")); got != before+1 {
		t.Fatalf("booking_rejected_total = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(storeFallback.WithLabelValues("load"))
	IncStoreFallback("load")
	if got := testutil.ToFloat64(storeFallback.WithLabelValues("load")); got != before+1 {
		t.Fatalf("store_fallback_total = %v, want %v", got, before+1)
	}
}
