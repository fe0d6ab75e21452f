package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the ranked listing handler
	RankingLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ranking_list_latency_seconds",
		Help:    "Latency of ranked cafe listings",
		Buckets: prometheus.DefBuckets,
	})

	// Ranked listings served, by order
	RankingRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_list_requests_total",
		Help: "Total number of ranked cafe listing requests",
	}, []string{"order"})

	ViewsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ranking_views_recorded_total",
		Help: "Cafe views appended to session histories",
	})
)

func Init() {
	prometheus.MustRegister(
		RankingLatency,
		RankingRequests,
		ViewsRecorded,
	)
}
