package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	QueueJoins       prometheus.Counter
	PoolsGenerated   prometheus.Counter
	PoolPowerDelta   prometheus.Histogram
	MatchesCreated   prometheus.Counter
	MatchesFinished  prometheus.Counter
	MatchesCancelled prometheus.Counter
}
