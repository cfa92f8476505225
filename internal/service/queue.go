package service

import (
	"context"
	"errors"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/events"
	"github.com/aidar/courtmatch/internal/repository"
)

// QueueService handles joining and leaving session queues
type QueueService struct {
	Deps
}

// NewQueueService creates a new QueueService
func NewQueueService(deps Deps) *QueueService {
	return &QueueService{Deps: deps.withDefaults()}
}

// Enqueue adds the member to the tail of the session queue and takes one unit of session capacity.
// The capacity decrement and the entry insert commit together or not at all.
func (s *QueueService) Enqueue(ctx context.Context, sessionID, memberID string) (*domain.QueueEntry, error) {
	if sessionID == "" || memberID == "" {
		return nil, domain.ErrMissingID
	}

	var entry *domain.QueueEntry
	err := s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		session, err := tx.Sessions().GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		member, err := tx.Roster().GetMember(ctx, memberID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := session.CanAdmit(now); err != nil {
			return err
		}

		q, err := ensureQueue(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		// a member already committed to a pool or a match must not be queued twice
		if id, err := tx.Pools().FindOpenParticipation(ctx, []string{memberID}); err != nil {
			return err
		} else if id != "" {
			return domain.ErrMemberAlreadyInPool
		}
		busy, err := tx.Matches().HasActiveParticipationInSession(ctx, sessionID, memberID)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrMemberInActiveMatch
		}

		if _, err := tx.Sessions().AdjustRemaining(ctx, sessionID, -1); err != nil {
			return err
		}

		entries, err := requeue(ctx, tx, q, []string{memberID}, now)
		if err != nil {
			return err
		}
		entry = entries[0]
		entry.Member = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncQueueJoins()
	s.Logger.Info("member enqueued", "session_id", sessionID, "member_id", memberID, "entry_id", entry.ID)
	s.publish(ctx, events.EventQueueJoined, sessionID, entry)
	return entry, nil
}

// Dequeue removes an entry from its queue. The capacity unit taken by Enqueue is not given back.
// Members playing an active match of the same session cannot leave.
func (s *QueueService) Dequeue(ctx context.Context, entryID string) (*domain.QueueEntry, error) {
	if entryID == "" {
		return nil, domain.ErrMissingID
	}

	entry, err := s.Store.Queues().GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Sessions().GetForUpdate(ctx, entry.SessionID); err != nil {
			return err
		}
		if _, err := tx.Queues().GetBySessionForUpdate(ctx, entry.SessionID); err != nil {
			return err
		}

		// re-read under the queue lock, the entry may have been consumed meanwhile
		current, err := tx.Queues().GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		busy, err := tx.Matches().HasActiveParticipationInSession(ctx, current.SessionID, current.MemberID)
		if err != nil {
			return err
		}
		if busy {
			return domain.ErrMemberInActiveMatch
		}

		deleted, err := tx.Queues().DeleteEntries(ctx, []string{entryID})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return domain.ErrQueueEntryNotFound
		}

		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("member left queue", "session_id", entry.SessionID, "member_id", entry.MemberID, "entry_id", entryID)
	s.publish(ctx, events.EventQueueLeft, entry.SessionID, entry)
	return entry, nil
}

// ListOrdered returns the session queue in matchmaking priority order
func (s *QueueService) ListOrdered(ctx context.Context, sessionID string) ([]*domain.QueueEntry, error) {
	if _, err := s.Store.Sessions().GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	q, err := s.Store.Queues().GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrQueueNotFound) {
			return []*domain.QueueEntry{}, nil
		}
		return nil, err
	}

	entries, err := s.Store.Queues().ListOrdered(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
