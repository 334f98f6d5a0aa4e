// Package monitoring exposes prometheus metrics for the booking flow.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Bookings by outcome",
		},
		[]string{"status"},
	)

	paymentRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_records_total",
			Help: "Payment record transitions by resulting status",
		},
		[]string{"status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Payment gateway request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	seatsReserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_reserved_total",
			Help: "Seats reserved through confirmed bookings",
		},
	)
)

func CountBooking(status string) {
	bookingsTotal.WithLabelValues(status).Inc()
}

func CountPaymentRecord(status string) {
	paymentRecordsTotal.WithLabelValues(status).Inc()
}

func CountSeats(n int) {
	seatsReserved.Add(float64(n))
}

func ObserveGatewayRequest(operation string, d time.Duration, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	gatewayRequestDuration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}
