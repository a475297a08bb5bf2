package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Count of recommendation sessions by policy state and detected user type.",
		},
		[]string{"state", "user_type"},
	)

	RatingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratings_total",
			Help: "Count of beverage ratings by score and whether the session looked synthetic.",
		},
		[]string{"score", "synthetic"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_cache_lookups_total",
			Help: "Count of rating stat cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsTotal, RatingsTotal, CacheLookupsTotal)
}
