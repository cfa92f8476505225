package metrics

// Metrics defines the interface for collecting matchmaking metrics.
// This decouples the services from the Prometheus implementation.
type Metrics interface {
	IncQueueJoins()
	IncPoolsGenerated()
	ObservePoolPowerDelta(delta int)
	IncMatchesCreated()
	IncMatchesFinished()
	IncMatchesCancelled()
}
