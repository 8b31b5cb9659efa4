package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ROICalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cop_roi_calculations_total",
			Help: "Total number of ROI computations served",
		},
	)

	ROISavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cop_roi_saved_total",
			Help: "Total number of persisted ROI calculations by whether a project was supplied",
		},
		[]string{"linked"},
	)

	ROILinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cop_roi_link_failures_total",
			Help: "Project back-reference writes that failed after the calculation was saved",
		},
		[]string{"reason"},
	)

	ProjectStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cop_project_status_transitions_total",
			Help: "Project status changes by source and target status",
		},
		[]string{"from", "to"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cop_submissions_total",
			Help: "Created records by collection",
		},
		[]string{"collection"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cop_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cop_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
