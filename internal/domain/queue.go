package domain

import "time"

// Queue представляет очередь сессии (одна очередь на сессию)
type Queue struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
}

// QueueEntry представляет участника в очереди
type QueueEntry struct {
	ID        string    `json:"id"`
	QueueID   string    `json:"queue_id"`
	SessionID string    `json:"session_id"`
	MemberID  string    `json:"member_id"`
	JoinedAt  time.Time `json:"joined_at"`
	Member    *Member   `json:"member,omitempty"`
}
