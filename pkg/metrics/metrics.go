package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "school_attendance"

var (
	// HTTPRequests counts handled requests by route and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPLatency request latency by route
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// TimetableConflicts bookings rejected because the slot was taken
	TimetableConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timetable_conflicts_total",
		Help:      "Timetable writes rejected with a scheduling conflict.",
	})

	// AttendanceMerged attendance records accepted from submissions
	AttendanceMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_records_merged_total",
		Help:      "Attendance records merged into the snapshot.",
	})

	// StorageFallbacks primary store failures served by the file fallback
	StorageFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_fallback_total",
		Help:      "Collection operations served by the JSON file fallback.",
	}, []string{"collection", "op"})

	// LockRenewalFailures collection lock extensions that did not succeed
	LockRenewalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lock_renewal_failures_total",
		Help:      "Distributed collection lock renewals that failed.",
	})
)
