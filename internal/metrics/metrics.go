package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatbook",
			Name:      "booking_created_total",
			Help:      "Count of booking requests by outcome.",
		},
		[]string{"outcome"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatbook",
			Name:      "booking_rejected_total",
			Help:      "Count of booking requests rejected by rule.",
		},
		[]string{"reason"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "seatbook",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	weeklyReset = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatbook",
			Name:      "weekly_reset_total",
			Help:      "Count of bulk clears by origin.",
		},
		[]string{"origin"},
	)

	storeFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatbook",
			Name:      "store_fallback_total",
			Help:      "Count of client operations served without the remote store.",
		},
		[]string{"op"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingCancelled, weeklyReset, storeFallback)
	})
}

func IncBookingCreated(outcome string) {
	bookingCreated.WithLabelValues(outcome).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncWeeklyReset(origin string) {
	weeklyReset.WithLabelValues(origin).Inc()
}

func IncStoreFallback(op string) {
	storeFallback.WithLabelValues(op).Inc()
}
