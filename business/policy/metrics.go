package policy

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_decisions_total",
			Help: "Count of resolved alternatives policy decisions by state and rule.",
		},
		[]string{"state", "rule"},
	)

	NoMoreOptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_no_more_options_total",
			Help: "Count of more-options requests that found every allowed pool exhausted.",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(DecisionsTotal, NoMoreOptionsTotal)
}
