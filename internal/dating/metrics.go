// internal/dating/metrics.go

package dating

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_feed_requests_total",
		Help: "Number of feed requests served",
	})

	feedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ember_feed_duration_seconds",
		Help:    "Time spent building a ranked feed",
		Buckets: prometheus.DefBuckets,
	})

	feedScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ember_feed_scores",
		Help:    "Distribution of candidate scores in served feeds",
		Buckets: prometheus.LinearBuckets(0, 0.1, 15),
	})

	swipesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ember_swipes_total",
		Help: "Number of swipes recorded, by action",
	}, []string{"action"})

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_matches_total",
		Help: "Number of matches created",
	})
)
