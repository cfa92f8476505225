package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	queueJoins       int
	poolsGenerated   int
	powerDeltas      []int
	matchesCreated   int
	matchesFinished  int
	matchesCancelled int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		powerDeltas: make([]int, 0),
	}
}

func (m *Mock) IncQueueJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueJoins++
}

func (m *Mock) IncPoolsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poolsGenerated++
}

func (m *Mock) ObservePoolPowerDelta(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.powerDeltas = append(m.powerDeltas, delta)
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncMatchesFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFinished++
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCancelled++
}

// QueueJoins returns the number of times IncQueueJoins was called.
func (m *Mock) QueueJoins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueJoins
}

// PoolsGenerated returns the number of times IncPoolsGenerated was called.
func (m *Mock) PoolsGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.poolsGenerated
}

// PowerDeltas returns every observed pool power delta in call order.
func (m *Mock) PowerDeltas() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.powerDeltas...)
}

// MatchesCreated returns the number of times IncMatchesCreated was called.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// MatchesFinished returns the number of times IncMatchesFinished was called.
func (m *Mock) MatchesFinished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFinished
}

// MatchesCancelled returns the number of times IncMatchesCancelled was called.
func (m *Mock) MatchesCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCancelled
}
