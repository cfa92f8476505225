package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/events"
	"github.com/aidar/courtmatch/internal/metrics"
	"github.com/aidar/courtmatch/internal/repository"
)

// Deps groups the collaborators shared by the matchmaking services
type Deps struct {
	Store     repository.Transactor
	Publisher events.Publisher
	Metrics   metrics.Metrics
	Logger    *slog.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = events.Noop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewMock()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// now returns the current time at the precision stored by Postgres
func (d Deps) now() time.Time {
	return d.Now().UTC().Truncate(time.Microsecond)
}

// publish sends an event after commit. A failed publish is logged and never fails the request.
func (d Deps) publish(ctx context.Context, eventType events.EventType, sessionID string, data any) {
	event := events.Event{
		Type:       eventType,
		SessionID:  sessionID,
		OccurredAt: d.now(),
		Data:       data,
	}
	if err := d.Publisher.Publish(ctx, event); err != nil {
		d.Logger.Warn("failed to publish event", "type", eventType, "session_id", sessionID, "error", err)
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ensureQueue locks the session queue, creating it if the session has none yet
func ensureQueue(ctx context.Context, tx repository.Store, sessionID string) (*domain.Queue, error) {
	q, err := tx.Queues().GetBySessionForUpdate(ctx, sessionID)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, domain.ErrQueueNotFound) {
		return nil, err
	}

	q = &domain.Queue{ID: newID(), SessionID: sessionID}
	if err := tx.Queues().Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// nextJoinTime returns a join time strictly after the current queue tail
func nextJoinTime(tail, now time.Time) time.Time {
	if !tail.IsZero() && !now.After(tail) {
		return tail.Add(time.Microsecond)
	}
	return now
}

// requeue appends members at the tail of the queue in the given order.
// The caller must hold the queue lock.
func requeue(ctx context.Context, tx repository.Store, q *domain.Queue, memberIDs []string, now time.Time) ([]*domain.QueueEntry, error) {
	tail, err := tx.Queues().Tail(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	at := nextJoinTime(tail, now)
	entries := make([]*domain.QueueEntry, 0, len(memberIDs))
	for i, memberID := range memberIDs {
		entry := &domain.QueueEntry{
			ID:        newID(),
			QueueID:   q.ID,
			SessionID: q.SessionID,
			MemberID:  memberID,
			JoinedAt:  at.Add(time.Duration(i) * time.Microsecond),
		}
		if err := tx.Queues().AddEntry(ctx, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
