// Package metrics exposes the application's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersPlaced counts successfully placed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pawmart",
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	})

	// OrdersCancelled counts cancelled orders.
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pawmart",
		Name:      "orders_cancelled_total",
		Help:      "Total number of orders cancelled.",
	})

	// AppointmentsBooked counts successfully booked appointments.
	AppointmentsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pawmart",
		Name:      "appointments_booked_total",
		Help:      "Total number of appointments booked.",
	})

	// PaymentURLsIssued counts payment redirect URLs handed to clients.
	PaymentURLsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pawmart",
		Name:      "payment_urls_issued_total",
		Help:      "Total number of payment URLs issued.",
	})
)

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
