package service

import (
	"context"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/events"
	"github.com/aidar/courtmatch/internal/repository"
)

// PoolService builds match pools from session queues and lets organisers adjust them
type PoolService struct {
	Deps
	balancer *TeamBalancer
}

// NewPoolService creates a new PoolService
func NewPoolService(deps Deps, balancer *TeamBalancer) *PoolService {
	if balancer == nil {
		balancer = NewTeamBalancer(domain.DefaultPowerModel(), DefaultScopeCap)
	}
	return &PoolService{
		Deps:     deps.withDefaults(),
		balancer: balancer,
	}
}

// GenerateMatchPool groups the best balanced candidates of the session queue into a pool
// and removes their queue entries in the same transaction.
// Members already in another open pool are passed over.
func (s *PoolService) GenerateMatchPool(ctx context.Context, sessionID, gender string) (*domain.Pool, error) {
	filter, err := domain.ParseGenderFilter(gender)
	if err != nil {
		return nil, err
	}

	var pool *domain.Pool
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		session, err := tx.Sessions().GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsActive {
			return domain.ErrSessionInactive
		}

		q, err := tx.Queues().GetBySessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		entries, err := tx.Queues().ListOrdered(ctx, q.ID)
		if err != nil {
			return err
		}

		eligible := make([]*domain.QueueEntry, 0, len(entries))
		memberIDs := make([]string, 0, len(entries))
		for _, e := range entries {
			if filter.Allows(e.Member.Gender) {
				eligible = append(eligible, e)
				memberIDs = append(memberIDs, e.MemberID)
			}
		}

		// a member queued in several sessions may already sit in an open pool elsewhere
		if _, err := tx.Roster().LockMembers(ctx, memberIDs); err != nil {
			return err
		}
		pooled, err := tx.Pools().ListOpenParticipants(ctx, memberIDs)
		if err != nil {
			return err
		}
		skip := make(map[string]struct{}, len(pooled))
		for _, id := range pooled {
			skip[id] = struct{}{}
		}

		byMember := make(map[string]*domain.QueueEntry, len(eligible))
		candidates := make([]*domain.Member, 0, len(eligible))
		for _, e := range eligible {
			if _, ok := skip[e.MemberID]; ok {
				continue
			}
			byMember[e.MemberID] = e
			candidates = append(candidates, e.Member)
		}

		grouping, err := s.balancer.BuildBalancedGroup(candidates, session.Type)
		if err != nil {
			return err
		}

		pool = &domain.Pool{
			ID:         newID(),
			SessionID:  sessionID,
			Type:       session.Type,
			Status:     domain.PoolStatusOpen,
			PowerDelta: grouping.PowerDelta,
			CreatedAt:  s.now(),
		}

		var consumed []string
		add := func(team domain.Team, members []*domain.Member) {
			for _, m := range members {
				pool.Participants = append(pool.Participants, &domain.PoolParticipant{
					ID:       newID(),
					PoolID:   pool.ID,
					MemberID: m.ID,
					Team:     team,
					Position: len(pool.Participants),
					Member:   m,
				})
				consumed = append(consumed, byMember[m.ID].ID)
			}
		}
		add(domain.TeamA, grouping.TeamA)
		add(domain.TeamB, grouping.TeamB)

		deleted, err := tx.Queues().DeleteEntries(ctx, consumed)
		if err != nil {
			return err
		}
		if deleted != int64(len(consumed)) {
			return domain.ErrStaleQueue
		}

		return tx.Pools().Create(ctx, pool)
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncPoolsGenerated()
	s.Metrics.ObservePoolPowerDelta(pool.PowerDelta)
	s.Logger.Info("match pool generated",
		"session_id", sessionID,
		"pool_id", pool.ID,
		"gender_filter", filter,
		"power_delta", pool.PowerDelta,
	)
	s.publish(ctx, events.EventPoolGenerated, sessionID, pool)
	return pool, nil
}

// GetPool returns a pool with its participants
func (s *PoolService) GetPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	return s.Store.Pools().GetByID(ctx, poolID)
}

// AddParticipant moves a queued member of the pool's session into the given team
func (s *PoolService) AddParticipant(ctx context.Context, poolID, entryID, team string) (*domain.Pool, error) {
	if poolID == "" || entryID == "" {
		return nil, domain.ErrMissingID
	}
	side, err := domain.ParseTeam(team)
	if err != nil {
		return nil, err
	}

	pool, err := s.Store.Pools().GetByID(ctx, poolID)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Sessions().GetForUpdate(ctx, pool.SessionID); err != nil {
			return err
		}
		q, err := tx.Queues().GetBySessionForUpdate(ctx, pool.SessionID)
		if err != nil {
			return err
		}
		pool, err = tx.Pools().GetForUpdate(ctx, poolID)
		if err != nil {
			return err
		}

		entry, err := tx.Queues().GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.QueueID != q.ID {
			return domain.ErrWrongSession
		}

		if err := pool.CanAdd(entry.MemberID, side); err != nil {
			return err
		}
		if _, err := tx.Roster().LockMembers(ctx, []string{entry.MemberID}); err != nil {
			return err
		}
		if id, err := tx.Pools().FindOpenParticipation(ctx, []string{entry.MemberID}); err != nil {
			return err
		} else if id != "" {
			return domain.ErrMemberAlreadyInPool
		}

		pp := &domain.PoolParticipant{
			ID:       newID(),
			PoolID:   pool.ID,
			MemberID: entry.MemberID,
			Team:     side,
			Position: pool.NextPosition(),
			Member:   entry.Member,
		}
		if err := tx.Pools().AddParticipant(ctx, pp); err != nil {
			return err
		}
		if _, err := tx.Queues().DeleteEntries(ctx, []string{entry.ID}); err != nil {
			return err
		}

		pool.Participants = append(pool.Participants, pp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("member added to match pool", "pool_id", poolID, "entry_id", entryID, "team", side)
	return pool, nil
}

// RemoveParticipant takes a member out of an open pool and puts them back at the tail of the queue.
// A pool left without participants is dissolved.
func (s *PoolService) RemoveParticipant(ctx context.Context, participantID string) (*domain.QueueEntry, error) {
	if participantID == "" {
		return nil, domain.ErrMissingID
	}

	pp, err := s.Store.Pools().GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	pool, err := s.Store.Pools().GetByID(ctx, pp.PoolID)
	if err != nil {
		return nil, err
	}

	var entry *domain.QueueEntry
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Sessions().GetForUpdate(ctx, pool.SessionID); err != nil {
			return err
		}
		q, err := ensureQueue(ctx, tx, pool.SessionID)
		if err != nil {
			return err
		}
		locked, err := tx.Pools().GetForUpdate(ctx, pool.ID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			return domain.ErrPoolClosed
		}

		current, err := tx.Pools().GetParticipant(ctx, participantID)
		if err != nil {
			return err
		}
		if err := tx.Pools().DeleteParticipant(ctx, participantID); err != nil {
			return err
		}

		entries, err := requeue(ctx, tx, q, []string{current.MemberID}, s.now())
		if err != nil {
			return err
		}
		entry = entries[0]

		if len(locked.Participants) == 1 {
			return tx.Pools().SetStatus(ctx, pool.ID, domain.PoolStatusDissolved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("member returned from match pool to queue",
		"pool_id", pool.ID,
		"member_id", entry.MemberID,
		"entry_id", entry.ID,
	)
	s.publish(ctx, events.EventQueueJoined, pool.SessionID, entry)
	return entry, nil
}
