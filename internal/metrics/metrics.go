package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinehall_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// ReservationsCreated counts successful allocations.
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_reservations_created_total",
		Help: "Reservations successfully allocated",
	})

	// SeatConflicts counts allocations rejected because a requested seat
	// was already held.
	SeatConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_seat_conflicts_total",
		Help: "Allocation attempts rejected by the exclusivity check",
	})

	// ReservationsPaid counts confirmed payments.
	ReservationsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_reservations_paid_total",
		Help: "Reservations transitioned to PAID",
	})

	// ReservationsCancelled counts explicit and cascade cancellations.
	ReservationsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_reservations_cancelled_total",
		Help: "Reservations transitioned to CANCELLED outside the sweeper",
	})

	// ReservationsExpired counts sweeper cancellations.
	ReservationsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_reservations_expired_total",
		Help: "Pending reservations cancelled by the expiration sweeper",
	})

	// SweepErrors counts failed sweeper ticks; each is retried next tick.
	SweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinehall_sweep_errors_total",
		Help: "Sweeper ticks that failed to persist",
	})
)
