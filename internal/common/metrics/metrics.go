package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Total number of service applications submitted",
		},
		[]string{"service_category"},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_rejected_total",
			Help: "Total number of submissions rejected before persistence",
		},
		[]string{"error_code"},
	)

	ComplaintsFiled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_complaints_filed_total",
			Help: "Total number of complaints filed",
		},
	)

	ReferenceCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_reference_collisions_total",
			Help: "Reference number collisions retried at the storage layer",
		},
	)

	RealtimeEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_realtime_events_published_total",
			Help: "Realtime events published to user connections",
		},
		[]string{"event"},
	)

	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_realtime_connections",
			Help: "Number of live websocket connections",
		},
	)
)
