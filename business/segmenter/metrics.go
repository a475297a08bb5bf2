package segmenter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK           = "ok"
	resultInsufficient = "insufficient_samples"
	resultBusy         = "coalesced"
	resultTimeout      = "timeout"
	resultError        = "error"
)

var (
	RetrainsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segmenter_retrains_total",
			Help: "Count of segmenter fit attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RetrainsTotal)
}
