package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headstrap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "headstrap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headstrap_bookings_total",
			Help: "Booking lifecycle transitions",
		},
		[]string{"status"},
	)

	SlotConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headstrap_slot_conflicts_total",
			Help: "Booking requests rejected because the slot was taken",
		},
	)

	ChargeAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headstrap_charge_attempts_total",
			Help: "Auto-charge attempts by outcome",
		},
		[]string{"outcome"},
	)

	StatementsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headstrap_statements_created_total",
			Help: "Monthly statements created by the billing run",
		},
	)

	BillingErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "headstrap_billing_errors_total",
			Help: "Per-account failures during billing runs",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headstrap_notifications_total",
			Help: "Notifications queued or sent by kind and status",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headstrap_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordSlotConflict() {
	SlotConflictsTotal.Inc()
}

func RecordChargeAttempt(outcome string) {
	ChargeAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordStatement() {
	StatementsCreatedTotal.Inc()
}

func RecordBillingError() {
	BillingErrorsTotal.Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}
