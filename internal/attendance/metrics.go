package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chamada_submissions_total",
			Help: "Attendance submissions by pipeline outcome.",
		},
		[]string{"outcome"},
	)
	geocodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chamada_geocode_duration_seconds",
			Help:    "Duration of reverse-geocode lookups.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)
)

const (
	outcomeAccepted       = "accepted"
	outcomeInvalid        = "invalid"
	outcomeDuplicate      = "duplicate"
	outcomeNoLocation     = "location_unavailable"
	outcomeUnresolved     = "geocode_unresolved"
	outcomeNotAuthorized  = "location_not_authorized"
	outcomeRosterConflict = "roster_conflict"
)
