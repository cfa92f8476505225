package events

import "time"

// EventType identifies what happened in the matchmaking flow
type EventType string

const (
	EventQueueJoined    EventType = "queue.joined"
	EventQueueLeft      EventType = "queue.left"
	EventPoolGenerated  EventType = "pool.generated"
	EventMatchCreated   EventType = "match.created"
	EventMatchFinished  EventType = "match.finished"
	EventMatchCancelled EventType = "match.cancelled"
)

// Event is the JSON message published after a committed state change
type Event struct {
	Type       EventType `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}
