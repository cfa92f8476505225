package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		QueueJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmatch_queue_joins_total",
			Help: "The total number of members that joined a session queue.",
		}),
		PoolsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmatch_pools_generated_total",
			Help: "The total number of match pools generated from session queues.",
		}),
		PoolPowerDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtmatch_pool_power_delta",
			Help:    "Power difference between the two teams of a generated pool.",
			Buckets: []float64{0, 10, 20, 30, 40, 60, 80, 120},
		}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmatch_matches_created_total",
			Help: "The total number of matches created.",
		}),
		MatchesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmatch_matches_finished_total",
			Help: "The total number of matches finished with a score.",
		}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtmatch_matches_cancelled_total",
			Help: "The total number of matches cancelled before a result.",
		}),
	}

	reg.MustRegister(
		s.QueueJoins,
		s.PoolsGenerated,
		s.PoolPowerDelta,
		s.MatchesCreated,
		s.MatchesFinished,
		s.MatchesCancelled,
	)

	return s
}

func (s *Service) IncQueueJoins() {
	s.QueueJoins.Inc()
}

func (s *Service) IncPoolsGenerated() {
	s.PoolsGenerated.Inc()
}

func (s *Service) ObservePoolPowerDelta(delta int) {
	s.PoolPowerDelta.Observe(float64(delta))
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncMatchesFinished() {
	s.MatchesFinished.Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}
