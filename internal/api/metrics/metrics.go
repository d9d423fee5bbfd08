// Package metrics defines the custom Prometheus metrics of the salon API.
// Metrics are registered with the default registry on package load and are
// exposed on /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salon"

// ── Booking metrics ───────────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts successful bookings.
// Label:
//   - service: catalog code of the booked service (e.g. "coupe")
var AppointmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments booked, by service.",
	},
	[]string{"service"},
)

// BookingConflictsTotal counts bookings rejected because the slot was taken.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of booking attempts rejected with a slot conflict.",
	},
)

// AppointmentsCancelledTotal counts cancellations and deletions of slot-holding appointments.
var AppointmentsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_cancelled_total",
		Help:      "Total number of appointments cancelled.",
	},
)

// BookingDuration measures the end-to-end duration of a booking request.
// Label:
//   - result: "created", "conflict" or "error"
var BookingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "booking_duration_seconds",
		Help:      "Duration of booking requests from validation to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// SlotQueriesTotal counts availability queries.
// Label:
//   - result: "ok" or "error"
var SlotQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_queries_total",
		Help:      "Total number of available-slot queries, by result.",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification deliveries.
// Labels:
//   - kind: "booked" or "cancelled"
//   - result: "sent", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of client notifications, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotificationQueueDepth tracks pending notifications in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - route: the matched route path
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)
