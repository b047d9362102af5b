// Package metrics exposes the Prometheus instrumentation for the booking
// backend. Notification dispatch is fire-and-forget relative to the HTTP
// response, so the failure counter is the only place those errors become
// observable besides the log line.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safemax_notifications_sent_total",
			Help: "Total status notification emails delivered to the SMTP relay",
		},
	)

	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safemax_notification_failures_total",
			Help: "Total status notification emails that failed to send",
		},
	)

	AppointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safemax_appointments_booked_total",
			Help: "Total appointments created",
		},
	)

	BookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safemax_booking_conflicts_total",
			Help: "Total booking requests rejected by a validation rule",
		},
		[]string{"reason"}, // "slot_taken", "duplicate"
	)

	BroadcastsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safemax_broadcasts_dropped_total",
			Help: "Total realtime events dropped because the broadcast buffer was full",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safemax_websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
