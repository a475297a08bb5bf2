package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExcludedBeveragesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scoring_excluded_beverages_total",
			Help: "Count of catalog entries skipped because their features could not be extracted.",
		},
	)
)

func init() {
	prometheus.MustRegister(ExcludedBeveragesTotal)
}
