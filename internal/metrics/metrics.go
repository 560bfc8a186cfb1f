package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Evaluations       *prometheus.CounterVec
	EvaluationSeconds prometheus.Histogram
	LocationErrors    *prometheus.CounterVec
	Confirmations     *prometheus.CounterVec
	AvailableSpots    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Evaluations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "parking_proximity_evaluations_total",
			Help: "Total number of position readings evaluated against the gate.",
		}, []string{"result"}),
		EvaluationSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "parking_proximity_evaluation_duration_seconds",
			Help:    "Duration of a single proximity evaluation, spot lookup included.",
			Buckets: prometheus.DefBuckets,
		}),
		LocationErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "parking_location_errors_total",
			Help: "Total number of location acquisition failures.",
		}, []string{"reason"}),
		Confirmations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "parking_reservation_confirmations_total",
			Help: "Total number of reservation confirmations by outcome.",
		}, []string{"status"}),
		AvailableSpots: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "parking_available_spots",
			Help: "Number of unoccupied spots seen by the latest evaluation.",
		}),
	}
}
