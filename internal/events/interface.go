package events

import "context"

// Publisher fans out matchmaking events to external consumers.
// Delivery is best-effort: callers log a failed publish and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
