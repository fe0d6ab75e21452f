package ranking

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScoredCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_scored_candidates_total",
			Help: "Count of cafe candidates scored, by visibility tier.",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(ScoredCandidatesTotal)
}
