package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/courtmatch/internal/domain"
	"github.com/aidar/courtmatch/internal/repository"
)

// stubStore serves one session with its queue and records pool writes.
// Embedded interfaces stay nil, so an unexpected call panics the test.
type stubStore struct {
	session *domain.Session
	queue   *domain.Queue
	entries []*domain.QueueEntry
	pool    *domain.Pool
	pooled  map[string]bool

	locked  [][]string
	created *domain.Pool
	added   []*domain.PoolParticipant
}

func (s *stubStore) Roster() repository.RosterRepository { return stubRoster{s: s} }
func (s *stubStore) Sessions() repository.SessionRepository { return stubSessions{s: s} }
func (s *stubStore) Queues() repository.QueueRepository { return stubQueues{s: s} }
func (s *stubStore) Pools() repository.PoolRepository { return stubPools{s: s} }
func (s *stubStore) Matches() repository.MatchRepository { return nil }

func (s *stubStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, s)
}

type stubRoster struct {
	repository.RosterRepository
	s *stubStore
}

func (r stubRoster) LockMembers(_ context.Context, memberIDs []string) ([]*domain.Member, error) {
	r.s.locked = append(r.s.locked, memberIDs)
	return nil, nil
}

type stubSessions struct {
	repository.SessionRepository
	s *stubStore
}

func (r stubSessions) GetForUpdate(context.Context, string) (*domain.Session, error) {
	return r.s.session, nil
}

type stubQueues struct {
	repository.QueueRepository
	s *stubStore
}

func (r stubQueues) GetBySessionForUpdate(context.Context, string) (*domain.Queue, error) {
	return r.s.queue, nil
}

func (r stubQueues) ListOrdered(context.Context, string) ([]*domain.QueueEntry, error) {
	return r.s.entries, nil
}

func (r stubQueues) GetEntryForUpdate(_ context.Context, entryID string) (*domain.QueueEntry, error) {
	for _, e := range r.s.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, domain.ErrQueueEntryNotFound
}

func (r stubQueues) DeleteEntries(_ context.Context, entryIDs []string) (int64, error) {
	return int64(len(entryIDs)), nil
}

type stubPools struct {
	repository.PoolRepository
	s *stubStore
}

func (r stubPools) ListOpenParticipants(_ context.Context, memberIDs []string) ([]string, error) {
	var ids []string
	for _, id := range memberIDs {
		if r.s.pooled[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r stubPools) FindOpenParticipation(ctx context.Context, memberIDs []string) (string, error) {
	ids, _ := r.ListOpenParticipants(ctx, memberIDs)
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func (r stubPools) Create(_ context.Context, pool *domain.Pool) error {
	r.s.created = pool
	return nil
}

func (r stubPools) GetByID(context.Context, string) (*domain.Pool, error) {
	return r.s.pool, nil
}

func (r stubPools) GetForUpdate(context.Context, string) (*domain.Pool, error) {
	return r.s.pool, nil
}

func (r stubPools) AddParticipant(_ context.Context, pp *domain.PoolParticipant) error {
	r.s.added = append(r.s.added, pp)
	return nil
}

func newStubStore(members ...string) *stubStore {
	store := &stubStore{
		session: &domain.Session{ID: "s2", Type: domain.MatchTypeDoubles, IsActive: true},
		queue:   &domain.Queue{ID: "q2", SessionID: "s2"},
		pooled:  map[string]bool{},
	}
	for _, id := range members {
		store.entries = append(store.entries, &domain.QueueEntry{
			ID:        "e-" + id,
			QueueID:   "q2",
			SessionID: "s2",
			MemberID:  id,
			Member:    &domain.Member{ID: id, Gender: domain.GenderMale},
		})
	}
	return store
}

func TestGenerateMatchPool_SkipsMembersInOpenPool(t *testing.T) {
	ctx := context.Background()

	t.Run("next eligible member takes the place", func(t *testing.T) {
		store := newStubStore("m1", "m2", "m3", "m4", "m5")
		store.pooled["m1"] = true
		svc := NewPoolService(Deps{Store: store}, nil)

		pool, err := svc.GenerateMatchPool(ctx, "s2", "")
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"m2", "m3", "m4", "m5"}, pool.MemberIDs())
		assert.Same(t, pool, store.created)
		require.Len(t, store.locked, 1)
		assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, store.locked[0])
	})

	t.Run("too few free members", func(t *testing.T) {
		store := newStubStore("m1", "m2", "m3", "m4")
		store.pooled["m1"] = true
		svc := NewPoolService(Deps{Store: store}, nil)

		_, err := svc.GenerateMatchPool(ctx, "s2", "")
		assert.ErrorIs(t, err, domain.ErrInsufficientCandidates)
		assert.Nil(t, store.created)
	})
}

func TestAddParticipant_RejectsMemberInAnotherOpenPool(t *testing.T) {
	ctx := context.Background()
	store := newStubStore("m1", "m2")
	store.pool = &domain.Pool{ID: "p2", SessionID: "s2", Type: domain.MatchTypeDoubles, Status: domain.PoolStatusOpen}
	svc := NewPoolService(Deps{Store: store}, nil)

	store.pooled["m1"] = true
	_, err := svc.AddParticipant(ctx, "p2", "e-m1", "TEAM_A")
	assert.ErrorIs(t, err, domain.ErrMemberAlreadyInPool)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, store.added)

	pool, err := svc.AddParticipant(ctx, "p2", "e-m2", "TEAM_A")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, pool.MemberIDs())
	assert.Equal(t, [][]string{{"m1"}, {"m2"}}, store.locked)
}
