package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	CheckInsScheduled prometheus.Counter
	CheckInsCompleted *prometheus.CounterVec
	FlightsRemoved    prometheus.Counter
	RetrievalFailures prometheus.Counter
	LowerFares        prometheus.Counter
	ReconcileTime     prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CheckInsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_scheduled_total",
			Help:      "The total number of check-ins scheduled",
		}),
		CheckInsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_completed_total",
			Help:      "The total number of check-in attempts that fired",
		}, []string{"status"}),
		FlightsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_removed_total",
			Help:      "The total number of flights removed from the scheduler",
		}),
		RetrievalFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_retrieval_failures_total",
			Help:      "The total number of failed reservation retrievals",
		}),
		LowerFares: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lower_fares_total",
			Help:      "The total number of lower fares detected",
		}),
		ReconcileTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_time_seconds",
			Help:      "Time taken to reconcile all reservations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
