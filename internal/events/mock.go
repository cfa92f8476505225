package events

import (
	"context"
	"sync"
)

// Noop discards every event
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Mock is a mock implementation of Publisher for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// PublishFunc, when set, decides the result of Publish
	PublishFunc func(event Event) error

	Published []Event
}

// NewMock creates a new mock publisher.
func NewMock() *Mock {
	return &Mock{}
}

// Publish records the event and executes the mock function if provided.
func (m *Mock) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(event)
	}
	return nil
}

// Types returns the types of published events in order.
func (m *Mock) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]EventType, len(m.Published))
	for i, e := range m.Published {
		types[i] = e.Type
	}
	return types
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = nil
}
